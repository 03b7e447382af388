package converter_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aretw0/sessionprune/pkg/adapters/converter"
	"github.com/aretw0/sessionprune/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFakeConverter drops a shell script that mimics the converter protocol:
// argv is "convert <format> <source> <dest>".
func writeFakeConverter(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script fixtures are not portable to windows")
	}
	path := filepath.Join(t.TempDir(), "fakeconv.sh")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestConvert_SuccessCopiesSourceToDest(t *testing.T) {
	tool := converter.Tool{Path: writeFakeConverter(t, `cp "$3" "$4"`)}

	src := filepath.Join(t.TempDir(), "in.bin")
	dst := filepath.Join(t.TempDir(), "out.xml")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

	r := converter.NewRunner(tool)
	res, err := r.Convert(context.Background(), converter.Job{
		Source: src,
		Dest:   dst,
		Format: "profile",
		Stage:  domain.StepDecode,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestConvert_NonZeroExitYieldsConversionError(t *testing.T) {
	tool := converter.Tool{Path: writeFakeConverter(t, `echo "bad resource header" >&2; exit 3`)}

	r := converter.NewRunner(tool)
	_, err := r.Convert(context.Background(), converter.Job{
		Source: "in",
		Dest:   "out",
		Format: "profile",
		Stage:  domain.StepDecode,
	})

	var cerr *domain.ConversionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 3, cerr.ExitCode)
	assert.Contains(t, cerr.Stderr, "bad resource header")
	assert.Equal(t, domain.StepDecode, cerr.Stage)
}

func TestConvert_MissingLauncher(t *testing.T) {
	tool := converter.Tool{
		Path:     "Converter.dll",
		Launcher: "definitely-not-a-real-launcher-binary",
	}

	r := converter.NewRunner(tool)
	_, err := r.Convert(context.Background(), converter.Job{Stage: domain.StepEncode})

	var cerr *domain.ConversionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, -1, cerr.ExitCode)
	assert.Contains(t, cerr.Stderr, "launcher")
}

func TestConvert_TimeoutCancelsSubprocess(t *testing.T) {
	tool := converter.Tool{Path: writeFakeConverter(t, `sleep 10`)}

	r := converter.NewRunner(tool, converter.WithTimeout(100*time.Millisecond))

	start := time.Now()
	_, err := r.Convert(context.Background(), converter.Job{Stage: domain.StepDecode})
	elapsed := time.Since(start)

	var cerr *domain.ConversionError
	require.ErrorAs(t, err, &cerr)
	assert.Less(t, elapsed, 5*time.Second)
	assert.ErrorIs(t, cerr.Err, context.DeadlineExceeded)
}

func TestConvert_ArgumentProtocol(t *testing.T) {
	// The fixture records its argv so we can assert the fixed protocol.
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	tool := converter.Tool{Path: writeFakeConverter(t, `echo "$@" > `+argsFile)}

	r := converter.NewRunner(tool)
	_, err := r.Convert(context.Background(), converter.Job{
		Source: "/tmp/a.bin",
		Dest:   "/tmp/a.xml",
		Format: "profile",
		Stage:  domain.StepDecode,
	})
	require.NoError(t, err)

	got, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "convert profile /tmp/a.bin /tmp/a.xml\n", string(got))
}

func TestLoadConfig_MissingFileIsZeroConfig(t *testing.T) {
	cfg, err := converter.LoadConfig(filepath.Join(t.TempDir(), "tool.yaml"))
	require.NoError(t, err)
	assert.Equal(t, converter.Config{}, cfg)
}

func TestLoadConfig_ParsesDescriptor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tool.yaml")
	yaml := "path: /opt/converter/Converter.dll\nlauncher: dotnet\nformat: profile\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := converter.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/converter/Converter.dll", cfg.Path)
	assert.Equal(t, "dotnet", cfg.Launcher)
	assert.Equal(t, "profile", cfg.Format)
}
