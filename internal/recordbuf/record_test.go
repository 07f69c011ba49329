package recordbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddEntryNormalizesCaseAndSigil(t *testing.T) {
	var buf Buffer
	buf.Init()
	buf.AddEntry("$Name", 3, "variable", "pkg", "f.go", "", ExtCols{})
	require.Equal(t, 1, buf.Len())
	rec := buf.Records()[0]
	require.Equal(t, "name", rec.Symbol)
	require.Equal(t, "$Name", rec.FullSymbol)
}

func TestAddEntrySkipsSigilStripOutsideVariableProperty(t *testing.T) {
	var buf Buffer
	buf.Init()
	buf.AddEntry("$x", 1, "argument", "pkg", "f.php", "", ExtCols{})
	rec := buf.Records()[0]
	require.Equal(t, "$x", rec.Symbol)
	require.Equal(t, "$x", rec.FullSymbol)
}

func TestAddEntryStripsTrailingPunctuationForCommentsAndStrings(t *testing.T) {
	var buf Buffer
	buf.Init()
	buf.AddEntry("hello.", 1, "comment", "pkg", "f.go", "", ExtCols{})
	require.Equal(t, "hello", buf.Records()[0].Symbol)

	buf.Reset()
	buf.AddEntry("world,", 1, "string", "pkg", "f.go", "", ExtCols{})
	require.Equal(t, "world", buf.Records()[0].Symbol)
}

func TestResetRetainsCapacityAcrossFiles(t *testing.T) {
	var buf Buffer
	buf.Init()
	for i := 0; i < 10; i++ {
		buf.AddEntry("something", i, "variable", "pkg", "f.go", "", ExtCols{})
	}
	require.Equal(t, 10, buf.Len())
	buf.Reset()
	require.Equal(t, 0, buf.Len())
	buf.AddEntry("other", 1, "variable", "pkg", "g.go", "", ExtCols{})
	require.Equal(t, 1, buf.Len())
}

func TestLambdaSymbolLiteralUnaffectedByNormalization(t *testing.T) {
	var buf Buffer
	buf.Init()
	buf.AddEntry("<lambda>", 5, "lambda", "pkg", "f.go", "1:1 - 1:10", ExtCols{IsDefinition: true, ParentSymbol: "<lambda>"})
	rec := buf.Records()[0]
	require.Equal(t, "<lambda>", rec.Symbol)
	require.True(t, rec.Ext.IsDefinition)
}
