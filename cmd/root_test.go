package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"check", "rules", "serve", "version"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestVersionCommand_PrintsBuildInfo(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, out.String(), "finqc")
	assert.Contains(t, out.String(), version)
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "finqc", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestCheckCommand_Flags(t *testing.T) {
	for _, name := range []string{"input", "sheet", "header-row", "decimal", "synonyms", "out", "sqlite"} {
		require.NotNil(t, checkCmd.Flags().Lookup(name), "check command should have --%s flag", name)
	}
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
}

func TestServeCommand_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	t.Cleanup(func() {
		servePort = 0
		// ExecuteContext stores ctx on the command; clear the cancelled
		// context so later tests using Execute() start from Background.
		rootCmd.SetContext(context.Background())
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	rootCmd.SetArgs([]string{"serve", "--port", strconv.Itoa(port)})
	go func() { done <- rootCmd.ExecuteContext(ctx) }()

	// Give the listener a moment to come up, then ask it to stop.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "cancelled serve should drain and exit cleanly")
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after cancellation")
	}
}

func TestCheckCommand_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(origDir)
		resetCheckFlags()
	})

	input := filepath.Join(dir, "ledger.csv")
	require.NoError(t, os.WriteFile(input, []byte(
		"tipo,receita,despesa\nReceita,100,\nReceita,100,50\n"), 0o644))

	outDir := filepath.Join(dir, "out")
	rootCmd.SetArgs([]string{"check", "--input", input, "--header-row", "1", "--out", outDir})
	require.NoError(t, rootCmd.Execute())

	for _, name := range []string{"clean.csv", "clean.parquet", "quality_report.csv", "quality_summary.csv"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, "expected artifact %s", name)
	}
}

func TestCheckCommand_SchemaErrorProducesNoOutput(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(origDir)
		resetCheckFlags()
	})

	input := filepath.Join(dir, "ledger.csv")
	require.NoError(t, os.WriteFile(input, []byte("tipo,receita\nReceita,100\n"), 0o644))

	outDir := filepath.Join(dir, "out")
	rootCmd.SetArgs([]string{"check", "--input", input, "--header-row", "1", "--out", outDir})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "despesa")

	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr), "schema error must not create outputs")
}

func resetCheckFlags() {
	checkInput, checkSheet, checkDecimal = "", "", ""
	checkSynonyms, checkOut, checkSQLite = "", "", ""
	checkHeaderRow = 0
}
