package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/wrapsetup/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from a
// YAML mapping.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Keys name flags with either hyphens or underscores:
//
//	log-level: debug
//	log_pretty: false
//	python: /opt/python3.12/bin/python3
//	search-path:
//	  - /opt/python3.12/bin
//	env-file:
//	  - build.env
//
// Command-line flags override config file values. A file that is not a
// valid YAML mapping is ignored with a warning.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var raw map[string]any

		if err := yaml.NewDecoder(r).DecodeContext(ctx, &raw); err != nil {
			if err != io.EOF {
				log.WarnContext(ctx, "ignoring configuration file",
					slog.String("error", err.Error()))
			}

			return config{}, nil
		}

		c := make(config, len(raw))

		for key, val := range raw {
			c[key] = native(val)
		}

		return c, nil
	}
}

// config implements [kong.Resolver] for YAML configs.
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

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// native converts decoded YAML scalars into values kong can map onto flags.
// Kong requires numbers as strings for parsing.
func native(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = native(e)
		}

		return out

	default:
		return v
	}
}
