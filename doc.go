// Package bootbanner prints a startup banner once while an application boots.
//
// The banner is written either straight to the console or as a single
// informational entry on a structured log channel, or not at all. When it is
// printed, a [RenderedBanner] record is registered under [BannerKey] in the
// application's registry so later code can tell which banner was produced.
//
// # Library Usage
//
//	app := bootbanner.New(
//		bootbanner.WithArgs(os.Args[1:]),
//		bootbanner.WithConfigFile("config/application.yaml", true),
//		bootbanner.WithResources(os.DirFS("config")),
//	)
//	appCtx, err := app.Run(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if rb, ok := appCtx.Banner(); ok {
//		fmt.Println("printed banner", rb.RunID)
//	}
//
// # Choosing a banner
//
// A banner set with [WithBanner] always wins. Otherwise the resources
// filesystem is searched for banner.gif, banner.jpg or banner.png
// (banner.image.location) and banner.txt (banner.location). When neither is
// present the built-in [DefaultBanner] is used. Text resources may reference
// properties as ${key} or ${key:default} and colours as ${AnsiColor.GREEN}.
//
// # Modes
//
// The banner.mode property (or [WithBannerMode]) selects off, console or log.
// Any other value fails startup with an [InvalidModeError]; it is never
// silently treated as off.
//
// # MCP Tools
//
// [RegisterMCPTools] exposes the run over MCP: startup_banner returns the
// registered record and get_property reads the environment, masking
// credential-like values.
package bootbanner
