package pdflink

import (
	"fmt"
	"io"
	"os"
)

// getLogger returns the writer warnings and debug lines go to,
// based on the configuration settings, defaulting to os.Stderr if nil.
func getLogger(config Config) io.Writer {
	if config.Logger == nil {
		return os.Stderr
	}
	return config.Logger
}

// debugf writes one debug line when debug mode is on.
func debugf(config Config, format string, args ...interface{}) {
	if !config.Debug {
		return
	}
	fmt.Fprintf(getLogger(config), "debug: "+format+"\n", args...)
}

// dumpQDFStructure is a debug utility that prints the parsed object
// table of a normalized buffer: every object with its byte span, stream
// flag and page attribution, plus the cross-reference bookkeeping the
// editor depends on.
func dumpQDFStructure(doc *Document, logger io.Writer) {
	fmt.Fprintln(logger, "===== QDF STRUCTURE DUMP =====")
	for _, obj := range doc.objects {
		line := fmt.Sprintf("object %s: bytes %d-%d", obj.Ref, obj.start, obj.end)
		if obj.HasStream {
			line += ", stream"
		}
		if obj.Page > 0 {
			line += fmt.Sprintf(", page %d", obj.Page)
		}
		fmt.Fprintln(logger, line)
	}
	for _, ref := range doc.staleLinkAnnotations() {
		fmt.Fprintf(logger, "stale link annotation: %s\n", ref)
	}
	fmt.Fprintf(logger, "xref at byte %d covers %d objects from id %d, trailer /Size %d\n",
		doc.xrefStart, doc.count, doc.subStart, doc.size)
	fmt.Fprintf(logger, "next free object id: %d\n", doc.NextID())
	fmt.Fprintln(logger, "===== END QDF STRUCTURE DUMP =====")
}
