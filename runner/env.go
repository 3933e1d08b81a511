package runner

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/joho/godotenv"
)

// Environ returns base extended with the variables defined in the dotenv
// files. Variables already present in base, or defined by an earlier file,
// are not overridden.
func Environ(base []string, files ...string) ([]string, error) {
	env := slices.Clone(base)

	seen := make(map[string]bool, len(base))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		seen[key] = true
	}

	for _, file := range files {
		vars, err := godotenv.Read(file)
		if err != nil {
			return nil, ErrEnvFile.Wrap(err).With(slog.String("file", file))
		}

		keys := make([]string, 0, len(vars))
		for key := range vars {
			keys = append(keys, key)
		}

		slices.Sort(keys)

		for _, key := range keys {
			if seen[key] {
				continue
			}

			seen[key] = true
			env = append(env, key+"="+vars[key])
		}
	}

	return env, nil
}

// Without returns env without any entries for the given keys.
func Without(env []string, keys ...string) []string {
	return slices.DeleteFunc(slices.Clone(env), func(kv string) bool {
		key, _, _ := strings.Cut(kv, "=")

		return slices.Contains(keys, key)
	})
}
