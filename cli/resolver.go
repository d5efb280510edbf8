package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/permute/cli/cmd"
)

// resolveYAML is a [kong.ConfigurationLoader] that reads YAML configuration
// files such as the one written by the init command.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolveYAML(name), "/path/to/config.yaml")
//
// Keys name flags. Nested maps are joined to their parent key with a hyphen,
// so both of these set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Keys may use underscores in place of hyphens. Sequences set repeatable
// flags such as --path.
//
// Command-line flags override config file values.
func resolveYAML(name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, cmd.ErrReadConfig.
				With(slog.String("file", name)).
				Wrap(err)
		}

		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, cmd.ErrReadConfig.
				With(slog.String("file", name)).
				Wrap(err)
		}

		conf := make(config, len(doc))
		conf.flatten("", doc)

		return conf, nil
	}
}

// config implements [kong.Resolver] for YAML configuration files.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found: kong uses the default.
	return nil, nil
}

// flatten stores each leaf of doc under its hyphen-joined key path.
func (r config) flatten(prefix string, doc map[string]any) {
	for key, value := range doc {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := value.(map[string]any); ok {
			r.flatten(key, sub)

			continue
		}

		if v, ok := flagValue(value); ok {
			r[key] = v
		}
	}
}

// flagValue converts a decoded YAML scalar or sequence to a value kong can
// map onto a flag. Numbers become strings, sequences become comma-separated
// lists. It reports false for null.
func flagValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false

	case string, bool:
		return v, true

	case int64:
		return strconv.FormatInt(v, 10), true

	case uint64:
		return strconv.FormatUint(v, 10), true

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true

	case []any:
		items := make([]string, 0, len(v))

		for _, item := range v {
			if s, ok := flagValue(item); ok {
				items = append(items, fmt.Sprint(s))
			}
		}

		return strings.Join(items, ","), true

	default:
		return fmt.Sprint(v), true
	}
}
