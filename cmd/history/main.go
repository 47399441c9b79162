package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"signal_bot/internal/models"
	historysvc "signal_bot/internal/modules/history/service"
	"signal_bot/pkg/logger"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

const usage = `usage: history [flags] <command>

commands:
  list      print processed signal ids
  count     print number of processed ids
  migrate   copy ids from --from backend into --to backend

flags:
`

func loadSettings(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName(strings.TrimSuffix(envOr(os.Getenv("CONFIG_FILE"), "values_local.yaml"), ".yaml"))
	v.AddConfigPath(envOr(os.Getenv("CONFIG_DIR"), "configs"))
	v.AddConfigPath(".")

	v.SetDefault("history.backend", historysvc.BackendFile)
	v.SetDefault("history.path", "data/processed_signals.json")
	v.SetDefault("history.redis.addr", "localhost:6379")
	v.SetDefault("history.redis.key", "signal_bot:processed")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("history.db_dsn", "DATABASE_DSN")
	_ = v.BindEnv("history.redis.password", "REDIS_PASSWORD")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Wrap(err, "bind flags")
	}
	return v, nil
}

func envOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// options настройки бэкенда из конфига, backend можно переопределить.
func options(v *viper.Viper, backend string) historysvc.Options {
	if backend == "" {
		backend = v.GetString("history.backend")
	}
	return historysvc.Options{
		Backend:       backend,
		Path:          v.GetString("history.path"),
		DSN:           v.GetString("history.db_dsn"),
		RedisAddr:     v.GetString("history.redis.addr"),
		RedisPassword: v.GetString("history.redis.password"),
		RedisDB:       v.GetInt("history.redis.db"),
		RedisKey:      v.GetString("history.redis.key"),
	}
}

func open(ctx context.Context, v *viper.Viper, backend string, log *zap.Logger) (*historysvc.History, models.ProcessedSet, error) {
	b, err := historysvc.Open(ctx, options(v, backend))
	if err != nil {
		return nil, nil, err
	}
	h := historysvc.NewHistory(b, log)
	set, err := h.Load(ctx)
	if err != nil {
		_ = h.Close()
		return nil, nil, err
	}
	return h, set, nil
}

func run(ctx context.Context, v *viper.Viper, cmd string, log *zap.Logger) error {
	switch cmd {
	case "list", "count":
		h, set, err := open(ctx, v, v.GetString("backend"), log)
		if err != nil {
			return err
		}
		defer h.Close()

		if cmd == "count" {
			fmt.Println(len(set))
			return nil
		}
		if v.GetString("format") == "yaml" {
			out, err := yaml.Marshal(map[string]any{"processed": set.IDs()})
			if err != nil {
				return errors.Wrap(err, "marshal yaml")
			}
			fmt.Print(string(out))
			return nil
		}
		for _, id := range set.IDs() {
			fmt.Println(id)
		}
		return nil

	case "migrate":
		from, to := v.GetString("from"), v.GetString("to")
		if from == "" || to == "" || from == to {
			return errors.New("migrate needs distinct --from and --to")
		}
		src, set, err := open(ctx, v, from, log)
		if err != nil {
			return errors.Wrap(err, "open source")
		}
		defer src.Close()
		dst, _, err := open(ctx, v, to, log)
		if err != nil {
			return errors.Wrap(err, "open destination")
		}
		defer dst.Close()

		n, err := Migrate(ctx, set, dst)
		if err != nil {
			return err
		}
		fmt.Printf("migrated %d ids %s -> %s\n", n, from, to)
		return nil
	}
	return errors.Errorf("unknown command %q", cmd)
}

// Migrate переносит id, которых ещё нет в dst. Возвращает число добавленных.
func Migrate(ctx context.Context, set models.ProcessedSet, dst *historysvc.History) (int, error) {
	added := 0
	for _, id := range set.IDs() {
		if dst.Has(id) {
			continue
		}
		if _, err := dst.MarkProcessed(ctx, id); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func main() {
	fs := pflag.NewFlagSet("history", pflag.ExitOnError)
	fs.String("backend", "", "backend for list/count (default: history.backend from config)")
	fs.String("from", "", "source backend for migrate")
	fs.String("to", "", "destination backend for migrate")
	fs.String("format", "text", "list output: text | yaml")
	fs.Duration("timeout", time.Minute, "overall timeout")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	logger.SetServiceName("signal_bot_history")
	log, err := logger.New(envOr(os.Getenv("LOG_LEVEL"), "warn"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	v, err := loadSettings(fs)
	if err != nil {
		logger.Fatal("settings: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), v.GetDuration("timeout"))
	defer cancel()

	if err := run(ctx, v, fs.Arg(0), log); err != nil {
		logger.Error("%s: %v", fs.Arg(0), err)
		os.Exit(1)
	}
}
