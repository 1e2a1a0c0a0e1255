package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskvault/internal/config"
	"github.com/felixgeelhaar/taskvault/internal/datamodel"
	"github.com/felixgeelhaar/taskvault/internal/errors"
	"github.com/felixgeelhaar/taskvault/internal/log"
	"github.com/felixgeelhaar/taskvault/internal/projects"
	"github.com/felixgeelhaar/taskvault/internal/storage"
	"github.com/felixgeelhaar/taskvault/internal/ux"
)

// CommandContext holds the global flags of a command invocation.
type CommandContext struct {
	ConfigPath string
	Format     string
	LogLevel   string
	LogFormat  string
	NoColor    bool
}

// NewCommandContext extracts command context from cobra.Command flags.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}
	logFormat, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, err
	}
	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		ConfigPath: configPath,
		Format:     format,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
		NoColor:    noColor,
	}, nil
}

// session is everything a command needs, wired from flags and config.
type session struct {
	ctx      *CommandContext
	cfgPath  string
	cfg      *config.Config
	settings *config.Config
	logger   *log.Logger
	store    *datamodel.Store
	projects *projects.Manager
	out      ux.Formatter
	styles   ux.Styles
}

func newSession(cmd *cobra.Command) (*session, error) {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to create command context: %w", err)
	}

	cfgPath := cc.ConfigPath
	if cfgPath == "" {
		if cfgPath, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	settings := cfg.WithEnv()

	level := firstNonEmpty(cc.LogLevel, settings.Logging.Level)
	format := firstNonEmpty(cc.LogFormat, settings.Logging.Format)
	logger := log.New(log.FromSettings(level, format, cmd.ErrOrStderr()))
	log.SetDefaultLogger(logger)

	out, err := ux.NewFormatter(cc.Format, &ux.FormatterOptions{Writer: cmd.OutOrStdout(), NoColor: cc.NoColor})
	if err != nil {
		return nil, err
	}

	fsys := storage.NewOSFS("/")
	store := datamodel.NewStore(fsys,
		datamodel.WithLogger(logger),
		datamodel.WithCreator(settings.UserID))

	return &session{
		ctx:      cc,
		cfgPath:  cfgPath,
		cfg:      cfg,
		settings: settings,
		logger:   logger,
		store:    store,
		projects: projects.NewManager(store, fsys, cfg, cfgPath, settings.ProjectsDir, logger),
		out:      out,
		styles:   ux.NewStyles(cc.NoColor),
	}, nil
}

// emit writes text in text mode and data otherwise.
func (s *session) emit(text ux.Renderer, data interface{}) error {
	if s.ctx.Format == "text" || s.ctx.Format == "" {
		return s.out.Format(text)
	}
	return s.out.Format(data)
}

// entityFile turns a command argument naming an entity file or its directory
// into an absolute path to the file of kind.
func entityFile(arg string, kind datamodel.Kind) (string, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", errors.NewFileReadError(arg, err)
	}
	if filepath.Base(abs) == kind.BaseFilename() {
		return abs, nil
	}
	if strings.HasSuffix(abs, ".json") {
		return "", errors.NewConstraintError(fmt.Sprintf("%s is not a %s file", arg, kind)).
			WithSuggestion(fmt.Sprintf("Pass the %s directory or its %s", kind, kind.BaseFilename()))
	}
	return filepath.Join(abs, kind.BaseFilename()), nil
}

// parseKeyValues parses repeated key=value flag values.
func parseKeyValues(flag string, pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid argument %q for --%s: expected key=value", p, flag)
		}
		out[k] = v
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
