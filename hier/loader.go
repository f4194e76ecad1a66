package hier

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	digest "github.com/opencontainers/go-digest"
	"golang.org/x/sync/singleflight"
)

// parsedModule is a tokenize+parse result cached by content digest, so
// importing the same unchanged file from several call sites only pays the
// lexing/parsing cost once (section B.1 of the expanded specification).
type parsedModule struct {
	code Expression
	errs SyntaxErrorList
}

// moduleLoader reads and parses module paths for the runtime `import`
// builtin; `#<path>` includes are read by the tokenizer itself.
// Concurrent imports of the same resolved path are coalesced with
// singleflight the way the teacher's own dependency graph avoids
// redundant concurrent compiles of one package.
type moduleLoader struct {
	reader ModuleReader

	mu    sync.Mutex
	cache map[digest.Digest]*parsedModule

	group singleflight.Group
}

func newModuleLoader(reader ModuleReader) *moduleLoader {
	return &moduleLoader{reader: reader, cache: make(map[digest.Digest]*parsedModule)}
}

// resolveImportPath reproduces the original's origin-relative path
// arithmetic: a leading "./" is resolved against the process cwd when the
// importing module itself used a relative path, a bare name resolves
// against the importing module's directory, and the ".hier" suffix is
// appended if missing.
func resolveImportPath(originPath, rawPath string) string {
	origin := originPath

	if strings.HasPrefix(origin, "./") {
		origin = origin[2:]
		if cwd, err := os.Getwd(); err == nil {
			origin = filepath.Join(cwd, origin)
		}
	}

	if !strings.HasSuffix(origin, "/") {
		origin = filepath.Dir(origin) + "/"
	}

	path := rawPath
	if strings.HasPrefix(path, "./") {
		path = origin + path[2:]
	} else if !strings.HasPrefix(path, "/") {
		path = origin + path
	}

	if !strings.HasSuffix(path, ".hier") {
		path += ".hier"
	}

	return path
}

// load reads, tokenizes and parses path, reusing a cached parse if the
// file's contents match one already seen under any path.
func (l *moduleLoader) load(path string) (Expression, SyntaxErrorList, error) {
	contents, err := l.reader(path)
	if err != nil {
		return Expression{}, nil, fmt.Errorf("failed to read module %s: %w", path, err)
	}

	key := digest.FromString(contents)

	l.mu.Lock()
	if cached, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return cached.code, cached.errs, nil
	}
	l.mu.Unlock()

	result, err, _ := l.group.Do(string(key), func() (interface{}, error) {
		tok := newTokenizer(contents, path)
		tok.reader = l.reader
		tokens, tokErrs := tok.tokenizeModule()

		p := newParser(tokens, path)
		code, parseErrs := p.parse()

		errs := append(SyntaxErrorList{}, tokErrs...)
		errs = append(errs, parseErrs...)

		parsed := &parsedModule{code: code, errs: errs}

		l.mu.Lock()
		l.cache[key] = parsed
		l.mu.Unlock()

		return parsed, nil
	})
	if err != nil {
		return Expression{}, nil, err
	}

	parsed := result.(*parsedModule)
	return parsed.code, parsed.errs, nil
}
