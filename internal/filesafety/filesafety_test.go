package filesafety

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestCheck_SmallFileSkipsScreening(t *testing.T) {
	path := writeTemp(t, "tiny.ts", []byte{0x89, 0x50, 0x4E, 0x47})
	assert.NoError(t, Check(path, 1024))
}

func TestCheck_ValidTypeScriptPasses(t *testing.T) {
	content := bytes.Repeat([]byte("// padding\n"), 20000)
	content = append([]byte("interface Greeter {\n  greet(): string;\n}\n"), content...)
	path := writeTemp(t, "greeter.ts", content)
	assert.NoError(t, Check(path, 10))
}

func TestCheck_ValidJavaScriptPasses(t *testing.T) {
	content := append([]byte("export function hello() { console.log('hi'); }\n"), bytes.Repeat([]byte(" "), 300*1024)...)
	path := writeTemp(t, "hello.js", content)
	assert.NoError(t, Check(path, 10))
}

func TestCheck_PNGDisguisedAsTypeScriptFails(t *testing.T) {
	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	content := append(pngHeader, bytes.Repeat([]byte{0x00, 0x01, 0x02}, 100*1024)...)
	path := writeTemp(t, "disguised.ts", content)
	assert.Error(t, Check(path, 10))
}

func TestCheck_BinaryBlobFails(t *testing.T) {
	blob := bytes.Repeat([]byte{0x00, 0x01, 0x02, 0x03, 0x1F}, 100*1024)
	path := writeTemp(t, "blob.ts", blob)
	assert.Error(t, Check(path, 10))
}

func TestCheck_NonSourceExtensionIsNeverScreened(t *testing.T) {
	blob := bytes.Repeat([]byte{0x00, 0x01}, 100*1024)
	path := writeTemp(t, "blob.bin", blob)
	assert.NoError(t, Check(path, 10))
}
