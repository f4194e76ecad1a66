package hier

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveImportPathRelativeToOrigin(t *testing.T) {
	path := resolveImportPath("/a/b/main.hier", "./util")
	assert.Equal(t, "/a/b/util.hier", path)
}

func TestResolveImportPathBareNameJoinsOriginDir(t *testing.T) {
	path := resolveImportPath("/a/b/main.hier", "sub/mod")
	assert.Equal(t, "/a/b/sub/mod.hier", path)
}

func TestResolveImportPathAbsoluteIsNotRebased(t *testing.T) {
	path := resolveImportPath("/a/b/main.hier", "/abs/path")
	assert.Equal(t, "/abs/path.hier", path)
}

func TestResolveImportPathSkipsDoubleSuffix(t *testing.T) {
	path := resolveImportPath("/a/b/main.hier", "./already.hier")
	assert.Equal(t, "/a/b/already.hier", path)
}

func TestModuleLoaderLoadParsesContents(t *testing.T) {
	loader := newModuleLoader(func(path string) (string, error) {
		return "(+ 1 2)", nil
	})

	code, errs, err := loader.load("main.hier")
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Equal(t, exprBlock, code.kind)
	require.Len(t, code.items, 1)
	assert.Equal(t, exprList, code.items[0].kind)
}

func TestModuleLoaderCachesByContentDigest(t *testing.T) {
	var reads int64
	loader := newModuleLoader(func(path string) (string, error) {
		atomic.AddInt64(&reads, 1)
		return "(+ 1 2)", nil
	})

	code1, _, err := loader.load("one.hier")
	require.NoError(t, err)
	code2, _, err := loader.load("two.hier")
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(&reads), "reader runs once per call site regardless of cache")
	assert.Equal(t, code1, code2, "identical contents share the cached parse result")
}

func TestModuleLoaderPropagatesReaderError(t *testing.T) {
	loader := newModuleLoader(func(path string) (string, error) {
		return "", assert.AnError
	})

	_, _, err := loader.load("missing.hier")
	assert.Error(t, err)
}
