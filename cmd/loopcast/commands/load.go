package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/loopcast/loopcast/pkg/config"
	"github.com/loopcast/loopcast/pkg/telemetry"
)

// bindConfigFile parses the server document at path and binds it into a
// fresh schema tree. Include references resolve relative to the document's
// directory. The returned tree is mutable; callers freeze it when it
// becomes the published configuration.
func bindConfigFile(logger zerolog.Logger, path string) (*config.Node, *config.Binder, error) {
	el, err := config.ParseDocumentFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	tree := config.ServerSchema()
	binder := config.NewBinder(logger, config.NewFileResolver(filepath.Dir(path)))
	if err := binder.Bind(tree, el); err != nil {
		return nil, nil, fmt.Errorf("failed to bind %s: %w", path, err)
	}

	for _, d := range binder.Diagnostics() {
		logger.Warn().Str("path", d.Path).Msg(d.Message)
	}
	return tree, binder, nil
}

// bindConfigInstrumented binds the server document with a bind span, bind
// metrics and a config-bound event recorded through tel. Used on the
// serving path; validate and dump bind without telemetry.
func bindConfigInstrumented(ctx context.Context, logger zerolog.Logger, tel *telemetry.Telemetry, path string) (*config.Node, *config.Binder, error) {
	var (
		tree   *config.Node
		binder *config.Binder
	)
	err := telemetry.RecordBindOperation(tel.WithContext(ctx), path, func() error {
		var bindErr error
		tree, binder, bindErr = bindConfigFile(logger, path)
		return bindErr
	})
	if err != nil {
		return nil, nil, err
	}
	_ = tel.Events.PublishConfigBound(path, len(binder.Diagnostics()))
	return tree, binder, nil
}
