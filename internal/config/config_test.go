package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/image-transfer/internal/runner"
	"github.com/atomicstack/image-transfer/internal/script"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("LoadArgs returned error: %v", err)
	}
	a := cfg.App
	if a.PythonDir != "pyscripts" || a.NativeDir != "nativescripts" {
		t.Fatalf("unexpected dirs %q %q", a.PythonDir, a.NativeDir)
	}
	if a.Output != runner.DefaultOutput {
		t.Fatalf("expected output %q, got %q", runner.DefaultOutput, a.Output)
	}
	if a.Arity != script.ArityDual || a.Kind != script.KindInterpreted {
		t.Fatalf("unexpected arity/kind %v/%v", a.Arity, a.Kind)
	}
	if a.Movable {
		t.Fatalf("expected unloading disabled by default")
	}
	if a.Picker != PickerTerminal || !a.FSEvents || !a.ShowFooter {
		t.Fatalf("unexpected picker/fs-events/footer %q %v %v", a.Picker, a.FSEvents, a.ShowFooter)
	}
	if !reflect.DeepEqual(a.PythonExts, script.DefaultPythonExtensions()) {
		t.Fatalf("unexpected python extensions %v", a.PythonExts)
	}
	if cfg.Flags["arity"] != "dual" {
		t.Fatalf("expected arity flag recorded, got %q", cfg.Flags["arity"])
	}
	if cfg.File != "" {
		t.Fatalf("expected no config file, got %q", cfg.File)
	}
}

func TestLoadArgsFlags(t *testing.T) {
	args := []string{
		"--python-dir", "/srv/py",
		"--arity", "single",
		"--mode", "native",
		"--movable",
		"--extra-args", "--strength 0.5",
		"--python-ext", "py,pyw",
		"--frame-interval", "20ms",
		"--width", "100",
		"--picker", "NATIVE",
		"--trace",
		"--log-file", "/tmp/it.log",
	}
	cfg, err := LoadArgs(args, nil)
	if err != nil {
		t.Fatalf("LoadArgs returned error: %v", err)
	}
	a := cfg.App
	if a.PythonDir != "/srv/py" || a.Arity != script.AritySingle || a.Kind != script.KindNative {
		t.Fatalf("unexpected app config %+v", a)
	}
	if !a.Movable || a.ExtraArgs != "--strength 0.5" || a.Width != 100 {
		t.Fatalf("unexpected app config %+v", a)
	}
	if !reflect.DeepEqual(a.PythonExts, []string{"py", "pyw"}) {
		t.Fatalf("unexpected python extensions %v", a.PythonExts)
	}
	if a.FrameInterval != 20*time.Millisecond {
		t.Fatalf("expected 20ms frames, got %s", a.FrameInterval)
	}
	if a.Picker != PickerNative {
		t.Fatalf("expected picker normalised to %q, got %q", PickerNative, a.Picker)
	}
	if !cfg.Logging.Trace || cfg.Logging.FilePath != "/tmp/it.log" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if !reflect.DeepEqual(cfg.Args, args) {
		t.Fatalf("expected args preserved")
	}
}

func TestLoadArgsEnvFallback(t *testing.T) {
	env := []string{
		EnvName("output") + "=/tmp/out.png",
		EnvName("fs-events") + "=false",
		EnvName("height") + "=30",
		"UNRELATED=1",
	}
	cfg, err := LoadArgs([]string{"--height", "40"}, env)
	if err != nil {
		t.Fatalf("LoadArgs returned error: %v", err)
	}
	if cfg.App.Output != "/tmp/out.png" {
		t.Fatalf("expected env output, got %q", cfg.App.Output)
	}
	if cfg.App.FSEvents {
		t.Fatalf("expected fs events disabled from env")
	}
	if cfg.App.Height != 40 {
		t.Fatalf("expected flag to win over env, got %d", cfg.App.Height)
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName("flush-interval"); got != "IMAGE_TRANSFER_FLUSH_INTERVAL" {
		t.Fatalf("unexpected env name %q", got)
	}
}

func TestLoadArgsTOMLFile(t *testing.T) {
	path := writeFile(t, "it.toml", `
python_dir = "/opt/py"
arity = "none"
movable = true
native-ext = ["sh", "bash"]
width = 120
`)
	env := []string{EnvName("width") + "=80"}
	cfg, err := LoadArgs([]string{"--config", path, "--movable=false"}, env)
	if err != nil {
		t.Fatalf("LoadArgs returned error: %v", err)
	}
	a := cfg.App
	if a.PythonDir != "/opt/py" || a.Arity != script.ArityNone {
		t.Fatalf("expected file values, got %+v", a)
	}
	if a.Movable {
		t.Fatalf("expected flag to win over file")
	}
	if a.Width != 80 {
		t.Fatalf("expected env to win over file, got %d", a.Width)
	}
	if !reflect.DeepEqual(a.NativeExts, []string{"sh", "bash"}) {
		t.Fatalf("unexpected native extensions %v", a.NativeExts)
	}
	if cfg.File != path {
		t.Fatalf("expected file %q recorded, got %q", path, cfg.File)
	}
}

func TestLoadArgsYAMLFileFromEnv(t *testing.T) {
	path := writeFile(t, "it.yaml", "mode: native\nflush-interval: 2s\n")
	cfg, err := LoadArgs(nil, []string{EnvName("config") + "=" + path})
	if err != nil {
		t.Fatalf("LoadArgs returned error: %v", err)
	}
	if cfg.App.Kind != script.KindNative {
		t.Fatalf("expected native mode from yaml, got %v", cfg.App.Kind)
	}
	if cfg.App.FlushInterval != 2*time.Second {
		t.Fatalf("expected 2s flush interval, got %s", cfg.App.FlushInterval)
	}
}

func TestLoadArgsJSONFile(t *testing.T) {
	path := writeFile(t, "it.json", `{"output": "result/x.png", "footer": false, "height": 24}`)
	cfg, err := LoadArgs([]string{"--config", path}, nil)
	if err != nil {
		t.Fatalf("LoadArgs returned error: %v", err)
	}
	if cfg.App.Output != "result/x.png" || cfg.App.ShowFooter || cfg.App.Height != 24 {
		t.Fatalf("unexpected json config %+v", cfg.App)
	}
}

func TestLoadArgsRejectsUnknownFileKey(t *testing.T) {
	path := writeFile(t, "it.toml", "socket = \"x\"\n")
	_, err := LoadArgs([]string{"--config", path}, nil)
	if err == nil || !strings.Contains(err.Error(), `unknown option "socket"`) {
		t.Fatalf("expected unknown option error, got %v", err)
	}
}

func TestLoadArgsRejectsUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "it.ini", "arity=dual\n")
	if _, err := LoadArgs([]string{"--config", path}, nil); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestLoadArgsBadEnvValue(t *testing.T) {
	_, err := LoadArgs(nil, []string{EnvName("width") + "=wide"})
	if err == nil || !strings.Contains(err.Error(), EnvName("width")) {
		t.Fatalf("expected env error naming the variable, got %v", err)
	}
}

func TestLoadArgsBadArity(t *testing.T) {
	if _, err := LoadArgs([]string{"--arity", "triple"}, nil); err == nil {
		t.Fatalf("expected arity error")
	}
}

func TestLoadArgsHelp(t *testing.T) {
	_, err := LoadArgs([]string{"--help"}, nil)
	if !errors.Is(err, ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
	if !strings.Contains(Usage(), "--python-dir") {
		t.Fatalf("expected usage to list flags")
	}
}

func TestValidate(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("LoadArgs returned error: %v", err)
	}
	cfg.App.Width = -1
	cfg.App.FrameInterval = 0
	cfg.App.Picker = "zenity"
	cfg.App.Output = " "
	err = Validate(cfg)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"width must be >= 0", "frame-interval must be positive", `picker must be`, "output must not be empty"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestLoadArgsValidates(t *testing.T) {
	if _, err := LoadArgs([]string{"--time-slice", "0s"}, nil); err == nil {
		t.Fatalf("expected time-slice validation error")
	}
}
