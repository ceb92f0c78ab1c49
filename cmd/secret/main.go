// Command secret is the administrative counterpart of the API. It makes sure the callback
// secret exists, optionally rotates it or changes the callback settings, and prints the
// resulting settings together with the full callback URL to configure at SuperFaktura.
//
//	secret [--enabled=true|false] [--from=<status>] [--to=<status>] [--rotate-secret]
//
// New statuses are checked against the configured status catalog before anything is stored.
package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"superfaktura-callback/internal/core/cache"
	"superfaktura-callback/internal/core/config"
	"superfaktura-callback/internal/core/logger"
	"superfaktura-callback/internal/core/proxy"
	callbackadapter "superfaktura-callback/internal/features/callback/adapters"
	callbackdomain "superfaktura-callback/internal/features/callback/domain"
	callbackservice "superfaktura-callback/internal/features/callback/service"
	orderadapter "superfaktura-callback/internal/features/orders/adapters"
	orderdomain "superfaktura-callback/internal/features/orders/domain"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// adminOptions is what the command line asks for.
type adminOptions struct {
	update callbackdomain.SettingsUpdate
	rotate bool
}

// parseFlags reads the options; flags that are not given leave the stored value alone.
func parseFlags(args []string) (adminOptions, error) {
	fs := pflag.NewFlagSet("secret", pflag.ContinueOnError)
	enabled := fs.Bool("enabled", false, "switch order transitions on or off")
	from := fs.String("from", "", "status an order must have to be transitioned (empty disables transitions)")
	to := fs.String("to", "", "status a paid order is moved to (empty disables transitions)")
	rotate := fs.Bool("rotate-secret", false, "replace the secret; callbacks using the old one are rejected")

	if err := fs.Parse(args); err != nil {
		return adminOptions{}, err
	}
	if fs.NArg() > 0 {
		return adminOptions{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	opts := adminOptions{rotate: *rotate}
	if fs.Changed("enabled") {
		opts.update.Enabled = enabled
	}
	if fs.Changed("from") {
		status := orderdomain.OrderStatus(*from)
		opts.update.From = &status
	}
	if fs.Changed("to") {
		status := orderdomain.OrderStatus(*to)
		opts.update.To = &status
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	l := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Invalid Redis configuration", zap.Error(err))
	}
	defer store.Close()

	options := callbackadapter.NewOptionStore(store, callbackdomain.Settings{
		Enabled: cfg.Callback.Enabled,
		Transition: callbackdomain.Transition{
			From: orderdomain.OrderStatus(cfg.Callback.StatusFrom),
			To:   orderdomain.OrderStatus(cfg.Callback.StatusTo),
		},
	})

	secret, err := callbackservice.NewSecretService(options).Ensure(ctx)
	if err != nil {
		l.Fatal("Failed to initialize callback secret", zap.Error(err))
	}

	// The catalog only talks to the store when a status is changed.
	wcAdapter := orderadapter.NewWooCommerceAdapter(cfg.WooCommerce, proxy.Settings(cfg.Proxy))
	catalog, err := orderadapter.NewStatusCatalog(cfg.Callback.StatusCatalog, wcAdapter)
	if err != nil {
		l.Fatal("Invalid status catalog", zap.Error(err))
	}
	settingsService := callbackservice.NewSettingsService(options, options, catalog)

	if opts.rotate {
		if secret, err = settingsService.RotateSecret(ctx); err != nil {
			l.Fatal("Failed to rotate callback secret", zap.Error(err))
		}
	}

	settings, err := options.Settings(ctx)
	if err != nil {
		l.Fatal("Failed to read callback settings", zap.Error(err))
	}
	if !opts.update.IsEmpty() {
		if settings, err = settingsService.Update(ctx, opts.update); err != nil {
			l.Fatal("Failed to update callback settings", zap.Error(err))
		}
	}

	fmt.Println("Enabled:     ", settings.Enabled)
	fmt.Println("Status from: ", settings.Transition.From)
	fmt.Println("Status to:   ", settings.Transition.To)
	fmt.Println("Secret key:  ", secret)
	fmt.Println("Callback URL:", callbackURL(cfg.Callback.PublicURL, cfg.Callback.Namespace, secret))
}

func callbackURL(base, namespace, secret string) string {
	u, err := url.Parse(base)
	if err != nil {
		u = &url.URL{}
	}
	u = u.JoinPath(namespace, "callback")
	// The invoice placeholder is filled in by SuperFaktura and must stay unescaped.
	return fmt.Sprintf("%s?%s={invoice_id}&%s=%s", u.String(),
		callbackdomain.ParamInvoiceID, callbackdomain.ParamSecretKey, url.QueryEscape(secret))
}
