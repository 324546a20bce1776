package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/atomicstack/image-transfer/internal/app"
	"github.com/atomicstack/image-transfer/internal/runner"
	"github.com/atomicstack/image-transfer/internal/script"
	"github.com/atomicstack/image-transfer/internal/ui"
	"github.com/atomicstack/image-transfer/internal/watcher"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
	// File is the config file that supplied defaults, if any.
	File string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

const (
	envPrefix = "IMAGE_TRANSFER_"

	PickerTerminal = "terminal"
	PickerNative   = "native"
)

// ErrHelp is returned when -h or --help was requested; Usage holds the text.
var ErrHelp = pflag.ErrHelp

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// EnvName returns the environment variable consulted for a flag.
func EnvName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// LoadArgs allows tests to supply specific args/environment. Values come from
// flags, then IMAGE_TRANSFER_* variables, then the --config file, then
// built-in defaults.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs, v := newFlagSet()

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *pflag.Flag) { explicit[f.Name] = true })

	var file map[string]string
	path := *v.configFile
	if !explicit["config"] {
		path = envOrDefault(env, EnvName("config"), path)
	}
	if strings.TrimSpace(path) != "" {
		loaded, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		file = loaded
		for key := range file {
			if fs.Lookup(key) == nil {
				return Config{}, fmt.Errorf("%s: unknown option %q", path, key)
			}
		}
	}

	var layerErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if layerErr != nil || explicit[f.Name] || f.Name == "config" {
			return
		}
		if v, ok := env[EnvName(f.Name)]; ok && strings.TrimSpace(v) != "" {
			if err := fs.Set(f.Name, v); err != nil {
				layerErr = fmt.Errorf("%s: %w", EnvName(f.Name), err)
			}
			return
		}
		if v, ok := file[f.Name]; ok {
			if err := fs.Set(f.Name, v); err != nil {
				layerErr = fmt.Errorf("%s: %s: %w", path, f.Name, err)
			}
		}
	})
	if layerErr != nil {
		return Config{}, layerErr
	}

	parsedArity, err := script.ParseArity(*v.arity)
	if err != nil {
		return Config{}, err
	}
	parsedMode, err := script.ParseKind(*v.mode)
	if err != nil {
		return Config{}, err
	}

	flags := make(map[string]string)
	fs.VisitAll(func(f *pflag.Flag) { flags[f.Name] = f.Value.String() })

	cfg := Config{
		App: app.Config{
			PythonDir:     *v.pythonDir,
			NativeDir:     *v.nativeDir,
			PythonExts:    append([]string(nil), (*v.pythonExts)...),
			NativeExts:    append([]string(nil), (*v.nativeExts)...),
			ImageDir:      *v.imageDir,
			Interpreter:   *v.interpreter,
			Output:        *v.output,
			ExtraArgs:     *v.extraArgs,
			FlushInterval: *v.flushInterval,
			TimeSlice:     *v.timeSlice,
			FrameInterval: *v.frameInterval,
			Arity:         parsedArity,
			Kind:          parsedMode,
			Movable:       *v.movable,
			Picker:        strings.ToLower(strings.TrimSpace(*v.pickerKind)),
			FSEvents:      *v.fsEvents,
			Width:         *v.width,
			Height:        *v.height,
			ShowFooter:    *v.footer,
			Verbose:       *v.verbose,
		},
		Logging: Logging{
			FilePath: *v.logFile,
			Trace:    *v.trace,
		},
		Features: Features{
			Verbose: *v.verbose,
		},
		Flags: flags,
		Args:  append([]string(nil), args...),
		File:  path,
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Usage returns the flag help text.
func Usage() string {
	fs, _ := newFlagSet()
	return "Usage of image-transfer:\n" + fs.FlagUsages()
}

type values struct {
	configFile    *string
	pythonDir     *string
	nativeDir     *string
	pythonExts    *[]string
	nativeExts    *[]string
	imageDir      *string
	interpreter   *string
	output        *string
	extraArgs     *string
	flushInterval *time.Duration
	timeSlice     *time.Duration
	frameInterval *time.Duration
	arity         *string
	mode          *string
	movable       *bool
	pickerKind    *string
	fsEvents      *bool
	width         *int
	height        *int
	footer        *bool
	trace         *bool
	verbose       *bool
	logFile       *string
}

func newFlagSet() (*pflag.FlagSet, *values) {
	fs := pflag.NewFlagSet("image-transfer", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	fs.SortFlags = false
	v := &values{
		configFile:    fs.String("config", "", "optional config file (.toml, .yaml, .yml or .json)"),
		pythonDir:     fs.String("python-dir", "pyscripts", "directory holding python scripts"),
		nativeDir:     fs.String("native-dir", "nativescripts", "directory holding native executables"),
		pythonExts:    fs.StringSlice("python-ext", script.DefaultPythonExtensions(), "python script extensions"),
		nativeExts:    fs.StringSlice("native-ext", script.DefaultNativeExtensions(), "native script extensions"),
		imageDir:      fs.String("image-dir", "", "directory the file picker starts in"),
		interpreter:   fs.String("interpreter", "", "python interpreter (empty resolves python3/python on PATH)"),
		output:        fs.String("output", runner.DefaultOutput, "path scripts write their result to"),
		extraArgs:     fs.String("extra-args", "", "extra argument appended after the input images, passed as one entry"),
		flushInterval: fs.Duration("flush-interval", watcher.DefaultFlushInterval, "how often script directories are rescanned"),
		timeSlice:     fs.Duration("time-slice", watcher.DefaultTimeSlice, "watcher tick"),
		frameInterval: fs.Duration("frame-interval", ui.DefaultFrameInterval, "render loop tick"),
		arity:         fs.String("arity", script.ArityDual.String(), "input images per run: none, single or dual"),
		mode:          fs.String("mode", script.KindInterpreted.String(), "script list shown at start: python or native"),
		movable:       fs.Bool("movable", false, "allow unloading images from slots"),
		pickerKind:    fs.String("picker", PickerTerminal, "file picker: terminal or native"),
		fsEvents:      fs.Bool("fs-events", true, "rescan script directories on filesystem events"),
		width:         fs.Int("width", 0, "desired viewport width in cells (0 uses terminal width)"),
		height:        fs.Int("height", 0, "desired viewport height in rows (0 uses terminal height)"),
		footer:        fs.Bool("footer", true, "show the key binding footer"),
		trace:         fs.Bool("trace", false, "enable verbose JSON trace logging"),
		verbose:       fs.Bool("verbose", false, "trace every key press"),
		logFile:       fs.String("log-file", "", "path to the log file"),
	}
	return fs, v
}

// readFile loads a flat key/value config file. Keys may use dashes or
// underscores; list values become comma-separated strings.
func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	raw := map[string]interface{}{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	out := make(map[string]string, len(raw))
	for key, value := range raw {
		name := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "_", "-"))
		out[name] = stringify(value)
	}
	return out, nil
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprint(os.Stdout, Usage())
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks option ranges and names.
func Validate(cfg Config) error {
	a := cfg.App
	var problems []string
	if a.Width < 0 {
		problems = append(problems, fmt.Sprintf("width must be >= 0 (got %d)", a.Width))
	}
	if a.Height < 0 {
		problems = append(problems, fmt.Sprintf("height must be >= 0 (got %d)", a.Height))
	}
	if a.FlushInterval <= 0 {
		problems = append(problems, fmt.Sprintf("flush-interval must be positive (got %s)", a.FlushInterval))
	}
	if a.TimeSlice <= 0 {
		problems = append(problems, fmt.Sprintf("time-slice must be positive (got %s)", a.TimeSlice))
	}
	if a.FrameInterval <= 0 {
		problems = append(problems, fmt.Sprintf("frame-interval must be positive (got %s)", a.FrameInterval))
	}
	if a.Picker != PickerTerminal && a.Picker != PickerNative {
		problems = append(problems, fmt.Sprintf("picker must be %q or %q (got %q)", PickerTerminal, PickerNative, a.Picker))
	}
	if strings.TrimSpace(a.Output) == "" {
		problems = append(problems, "output must not be empty")
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return errors.New(strings.Join(problems, "; "))
}
