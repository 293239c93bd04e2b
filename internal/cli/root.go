package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fridge-app-go/internal/app"
	"fridge-app-go/internal/config"
	fridgedomain "fridge-app-go/internal/domain/fridge"
	"fridge-app-go/internal/kv"
	"fridge-app-go/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const EnvPrefix = "FRIDGE"

type fileConfig struct {
	Output string `mapstructure:"output"`
	Log    struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Store struct {
		Backend string `mapstructure:"backend"`
		Dir     string `mapstructure:"dir"`
		Redis   struct {
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
			Prefix   string `mapstructure:"prefix"`
		} `mapstructure:"redis"`
	} `mapstructure:"store"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Identity struct {
		DefaultName   string `mapstructure:"default_name"`
		AutoProvision bool   `mapstructure:"auto_provision"`
	} `mapstructure:"identity"`
}

// session holds what one invocation opens; close releases it.
type session struct {
	v       *viper.Viper
	cfgFile string
	output  string
	backend *app.Backend
	service *fridgedomain.Service
}

func newSession() *session {
	return &session{v: viper.New()}
}

func (s *session) close() error {
	if s.backend == nil {
		return nil
	}
	err := s.backend.Close()
	s.backend = nil
	s.service = nil
	return err
}

// Execute runs fridgectl with os.Args and returns the process exit code.
func Execute(ctx context.Context) int {
	s := newSession()
	root := newRootCommand(s)
	err := root.ExecuteContext(ctx)
	if closeErr := s.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", describe(err))
		return 1
	}
	return 0
}

func newRootCommand(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   "fridgectl",
		Short: "Manage shared refrigerator memberships on this device",
		Long: `fridgectl works directly against the local membership store. It can
switch the current user, create refrigerators, join one with an invite code,
leave, and inspect members. The store backend and its location come from
flags, FRIDGE_* environment variables, or a YAML config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.open(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&s.cfgFile, "config", "", "config file (YAML). Defaults to fridge.yaml in the current directory when present")
	flags.String("store-backend", "", "store backend: memory, file, redis or postgres")
	flags.String("store-dir", "", "directory for the file backend")
	flags.String("redis-addr", "", "address for the redis backend")
	flags.String("db-dsn", "", "DSN for the postgres backend")
	flags.StringP("output", "o", "", "output format: text or json")
	flags.String("log-level", "", "log level written to stderr")

	_ = s.v.BindPFlag("store.backend", flags.Lookup("store-backend"))
	_ = s.v.BindPFlag("store.dir", flags.Lookup("store-dir"))
	_ = s.v.BindPFlag("store.redis.addr", flags.Lookup("redis-addr"))
	_ = s.v.BindPFlag("db.dsn", flags.Lookup("db-dsn"))
	_ = s.v.BindPFlag("output", flags.Lookup("output"))
	_ = s.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(
		newMeCommand(s),
		newLoginCommand(s),
		newCreateCommand(s),
		newJoinCommand(s),
		newLeaveCommand(s),
		newListCommand(s),
		newShowCommand(s),
		newMembersCommand(s),
		newResetCommand(s),
	)
	return root
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output", "text")
	v.SetDefault("log.level", "warn")
	v.SetDefault("store.backend", config.BackendFile)
	v.SetDefault("store.dir", "./data")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "fridge:")
	v.SetDefault("db.dsn", "")
	v.SetDefault("identity.default_name", "Me")
	v.SetDefault("identity.auto_provision", true)
}

func (s *session) loadConfig() (fileConfig, error) {
	v := s.v
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if s.cfgFile != "" {
		v.SetConfigFile(s.cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fileConfig{}, fmt.Errorf("reading config file %s: %w", s.cfgFile, err)
		}
	} else {
		for _, name := range []string{"fridge.yaml", "fridge.yml"} {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				if err := v.ReadInConfig(); err != nil {
					return fileConfig{}, fmt.Errorf("reading config file %s: %w", name, err)
				}
				break
			}
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return fileConfig{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	return fc, nil
}

func (s *session) open(cmd *cobra.Command) error {
	fc, err := s.loadConfig()
	if err != nil {
		return err
	}

	switch fc.Output {
	case "text", "json":
		s.output = fc.Output
	default:
		return fmt.Errorf("unknown output format %q", fc.Output)
	}

	cfg := toAppConfig(fc)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Store.Backend == config.BackendPostgres && cfg.DB.DSN == "" {
		return errors.New("the postgres backend needs --db-dsn or FRIDGE_DB_DSN")
	}

	log := logger.NewWithOptions(logger.Options{
		Level:  fc.Log.Level,
		Format: "text",
		Output: cmd.ErrOrStderr(),
	})

	backend, err := app.OpenBackend(cfg, log)
	if err != nil {
		return err
	}
	s.backend = backend
	s.service = app.NewFridgeService(backend, cfg, nil, log)
	return nil
}

func toAppConfig(fc fileConfig) config.Config {
	return config.Config{
		Env: "cli",
		Store: config.StoreConfig{
			Backend: strings.ToLower(strings.TrimSpace(fc.Store.Backend)),
			Dir:     fc.Store.Dir,
			Redis: config.RedisConfig{
				Addr:     fc.Store.Redis.Addr,
				Password: fc.Store.Redis.Password,
				DB:       fc.Store.Redis.DB,
				Prefix:   fc.Store.Redis.Prefix,
			},
		},
		DB: config.DBConfig{DSN: fc.DB.DSN},
		Identity: config.IdentityConfig{
			DefaultName:   fc.Identity.DefaultName,
			AutoProvision: fc.Identity.AutoProvision,
		},
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, fridgedomain.ErrNoCurrentUser):
		return "no current user; run 'fridgectl login <id> <name>' first"
	case errors.Is(err, fridgedomain.ErrInvalidInviteCode):
		return "no refrigerator uses that invite code"
	case errors.Is(err, fridgedomain.ErrAlreadyMember):
		return "you are already a member of that refrigerator"
	case errors.Is(err, fridgedomain.ErrNotAMember):
		return "you are not a member of that refrigerator"
	case errors.Is(err, fridgedomain.ErrOwnerCannotLeave):
		return "the owner cannot leave their own refrigerator"
	case errors.Is(err, kv.ErrLocked):
		return "the store directory is in use by another fridgectl or fridge-app process; use the redis or postgres backend to share it"
	default:
		return err.Error()
	}
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
