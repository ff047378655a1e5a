package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var ErrMissingEnv = errors.New("missing environment variable")

// LoadEnv loads the given dotenv files (".env" if none are given) into the
// process environment. Files that do not exist are skipped, variables that
// are already set are left alone.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_, err := os.Stat(f)
		if os.IsNotExist(err) {
			continue
		}
		err = godotenv.Load(f)
		if err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
		slog.Debug("loaded environment file", "path", f)
	}
	return nil
}

// RequireEnv returns the values of the given variables in order, failing
// with every unset or empty name listed at once.
func RequireEnv(names ...string) ([]string, error) {
	values := make([]string, len(names))
	var missing []string
	for i, name := range names {
		values[i] = os.Getenv(name)
		if values[i] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}
	return values, nil
}
