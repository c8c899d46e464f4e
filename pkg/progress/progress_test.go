package progress_test

import (
	"fmt"
	"io"
	"strings"

	"github.com/essepuntato/dimm/pkg/progress"
)

func ExampleReader() {
	source := strings.NewReader("some mapping data")

	var terminal strings.Builder
	line := &progress.Rewritable{Writer: &terminal, FlushInterval: 0}

	reader := &progress.Reader{Reader: source, Line: line}
	_, _ = reader.Read(make([]byte, 4))
	_, _ = io.Copy(io.Discard, reader)

	// carriage returns become newlines so the output stays visible
	fmt.Println(strings.ReplaceAll(terminal.String(), "\r", "\n"))

	// Output: read 4 B
	// read 17 B
	// read 17 B
}

func ExampleWriter() {
	var terminal strings.Builder
	line := &progress.Rewritable{Writer: &terminal, FlushInterval: 0}

	writer := &progress.Writer{Writer: io.Discard, Line: line}
	_, _ = writer.Write([]byte("@prefix"))
	_, _ = writer.Write([]byte(" map: <#> ."))

	// carriage returns become newlines so the output stays visible
	fmt.Println(strings.ReplaceAll(terminal.String(), "\r", "\n"))

	// Output: wrote 7 B
	// wrote 18 B
}

func ExampleWriter_nil() {
	writer := &progress.Writer{Writer: io.Discard}

	_, _ = writer.Write([]byte("@prefix map: <#> ."))
	fmt.Println(writer.Bytes)

	// Output: 18
}
