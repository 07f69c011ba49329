package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildRegistersEveryDocumentedExtension(t *testing.T) {
	r := Build()
	for _, ext := range []string{
		".go", ".py", ".js", ".ts", ".tsx", ".java",
		".c", ".cpp", ".rb", ".php", ".rs",
	} {
		_, ok := r.For("file" + ext)
		require.True(t, ok, "no visitor registered for %s", ext)
	}
}

func TestBuildGivesGoAndPythonTheirOwnVisitor(t *testing.T) {
	r := Build()
	goV, ok := r.For("main.go")
	require.True(t, ok)
	require.Equal(t, "go", goV.Language())

	pyV, ok := r.For("main.py")
	require.True(t, ok)
	require.Equal(t, "python", pyV.Language())
}
