// Command wbedit edits Wikibase entities from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/wbedit/internal/adapters/driven/config/file"
	"github.com/custodia-labs/wbedit/internal/adapters/driven/mediawiki"
	"github.com/custodia-labs/wbedit/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/wbedit/internal/adapters/driving/cli"
	"github.com/custodia-labs/wbedit/internal/core/services"
	"github.com/custodia-labs/wbedit/internal/logger"
)

// Set by -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	defer logger.Sync()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	opts := []mediawiki.Option{
		mediawiki.WithUserAgent(settings.UserAgent),
		mediawiki.WithMaxlag(settings.Maxlag),
		mediawiki.WithRateLimiter(mediawiki.NewRateLimiter(settings.RequestsPerSecond)),
	}
	if settings.Auth.UsesOAuth() {
		opts = append(opts, mediawiki.WithAccessToken(settings.Auth.AccessToken))
	}

	conn, err := mediawiki.NewConnection(settings.APIURL, opts...)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", settings.APIURL, err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open edit journal: %w", err)
	}
	defer store.Close()

	tokens := services.NewCSRFTokens(conn)
	editService := services.NewEditService(conn, tokens, settings.SiteIRI, store.EditLogStore())

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Editor:   editService,
		History:  editService,
		Session:  services.NewSessionService(conn, tokens),
		Changes:  services.NewRecentChangesService(mediawiki.NewFeed(conn)),
		Settings: settingsService,
	})

	return cli.Execute()
}
