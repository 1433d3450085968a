package docs

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	successLine = regexp.MustCompile(`@Success\s+(\d+)`)
	routerLine  = regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]`)
)

type swaggerDoc struct {
	BasePath string `json:"basePath"`
	Paths    map[string]map[string]struct {
		Responses map[string]json.RawMessage `json:"responses"`
	} `json:"paths"`
}

func readDoc(t *testing.T) swaggerDoc {
	t.Helper()
	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))
	return doc
}

func TestDoc_RendersValidJSON(t *testing.T) {
	doc := readDoc(t)
	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.NotEmpty(t, doc.Paths)
}

// Every @Router annotation on a handler must appear in the document with the
// status code of its @Success line.
func TestDoc_MatchesHandlerAnnotations(t *testing.T) {
	doc := readDoc(t)
	files, err := filepath.Glob(filepath.Join("..", "internal", "api", "handler", "*.go"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	routes := 0
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := os.Open(name)
		require.NoError(t, err)

		var code string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if m := successLine.FindStringSubmatch(line); m != nil {
				code = m[1]
			}
			m := routerLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			routes++
			path, method := m[1], m[2]
			op, ok := doc.Paths[path][method]
			if assert.Truef(t, ok, "%s: %s %s missing from docs", name, method, path) {
				assert.Containsf(t, op.Responses, code, "%s: %s %s lacks a %s response", name, method, path, code)
			}
			code = ""
		}
		require.NoError(t, scanner.Err())
		_ = f.Close()
	}
	assert.Greater(t, routes, 0)
}

func TestDoc_CreateRoutesAnswer201(t *testing.T) {
	doc := readDoc(t)
	for _, path := range []string{"/users/register", "/comments/{videoId}", "/playlist", "/tweets", "/videos"} {
		assert.Containsf(t, doc.Paths[path]["post"].Responses, "201", "POST %s", path)
	}
}
