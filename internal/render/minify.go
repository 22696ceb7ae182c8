package render

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Minify compacts generated JavaScript. Identifiers are kept so the
// library's public names survive.
func Minify(js string) (string, error) {
	result := api.Transform(js, api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifyWhitespace:  true,
		MinifySyntax:      true,
		MinifyIdentifiers: false,
		LogLevel:          api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		var b strings.Builder
		for _, msg := range result.Errors {
			if msg.Location != nil {
				fmt.Fprintf(&b, "%d:%d: %s\n", msg.Location.Line, msg.Location.Column, msg.Text)
			} else {
				fmt.Fprintf(&b, "%s\n", msg.Text)
			}
		}
		return "", fmt.Errorf("esbuild errors:\n%s", b.String())
	}
	return string(result.Code), nil
}
