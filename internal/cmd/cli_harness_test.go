package cmd

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func snapshotCLIState() func() {
	prevOutputFmt := outputFmt
	prevOutputType := outputType
	prevConfig := configFile
	prevQueryExpr := queryExpr
	prevQueryFile := queryFile
	prevErrorFmt := errorFmt
	prevQuiet := quietFlag
	prevVerbose := verboseFlag
	prevLogger := logger

	prevOut := rootCmd.OutOrStdout()
	prevErr := rootCmd.ErrOrStderr()
	prevIn := rootCmd.InOrStdin()
	prevCtx := rootCmd.Context()

	return func() {
		outputFmt = prevOutputFmt
		outputType = prevOutputType
		configFile = prevConfig
		queryExpr = prevQueryExpr
		queryFile = prevQueryFile
		errorFmt = prevErrorFmt
		quietFlag = prevQuiet
		verboseFlag = prevVerbose
		logger = prevLogger

		rootCmd.SetOut(prevOut)
		rootCmd.SetErr(prevErr)
		rootCmd.SetIn(prevIn)
		rootCmd.SetContext(prevCtx)
		rootCmd.SetArgs(nil)
		resetFlagChanges(rootCmd)
	}
}

func resetFlagChanges(cmdFlagSet interface {
	Flags() *pflag.FlagSet
	PersistentFlags() *pflag.FlagSet
	InheritedFlags() *pflag.FlagSet
},
) {
	if cmdFlagSet == nil {
		return
	}
	cmdFlagSet.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
	cmdFlagSet.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
	cmdFlagSet.InheritedFlags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
}

// runCLI executes the root command against buffers with an isolated config
// file and returns stdout, stderr, and the command error.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	restore := snapshotCLIState()
	defer restore()

	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	in := bytes.NewBufferString(stdin)

	rootCmd.SetOut(out)
	rootCmd.SetErr(errBuf)
	rootCmd.SetIn(in)
	rootCmd.SetContext(withIO(context.Background(), in, out, errBuf))

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := rootCmd.Execute()
	return out.String(), errBuf.String(), err
}

// writeHarnessEPUB writes a three-heading test book: Alpha (with an authored
// id) and Beta in the first chapter, Gamma in the second.
func writeHarnessEPUB(t *testing.T, path string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatalf("create mimetype: %v", err)
	}
	w.Write([]byte("application/epub+zip"))

	add := func(name, content string) {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		fmt.Fprint(f, content)
	}

	add("META-INF/container.xml", `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`)

	add("OEBPS/content.opf", `<?xml version="1.0" encoding="utf-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:identifier id="uid">urn:uuid:harness</dc:identifier>
    <dc:title>Harness Book</dc:title>
  </metadata>
  <manifest>
    <item id="ch1" href="c1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="c2.xhtml" media-type="application/xhtml+xml"/>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`)

	add("OEBPS/c1.xhtml", `<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>c1</title></head>
<body><h1 id="alpha">Alpha</h1><p>text</p><h2>Beta</h2></body></html>`)
	add("OEBPS/c2.xhtml", `<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>c2</title></head>
<body><h1>Gamma</h1></body></html>`)
	add("OEBPS/nav.xhtml", `<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head><title>nav</title></head>
<body><nav epub:type="toc"><ol><li><a href="c1.xhtml">Old</a></li></ol></nav></body></html>`)

	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readZipEntry(t *testing.T, path, name string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", name, err)
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			t.Fatalf("read entry %s: %v", name, err)
		}
		return buf.String()
	}
	t.Fatalf("entry %s not found in %s", name, path)
	return ""
}
