package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/beauthy/beauthy/internal/cdn"
	"github.com/beauthy/beauthy/internal/models"
	"github.com/beauthy/beauthy/internal/orchestrator"
	"github.com/beauthy/beauthy/internal/resolver"
	"github.com/beauthy/beauthy/internal/scanner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// IconFlags are the options of icons apply
type IconFlags struct {
	Format    string
	Theme     string
	Method    string
	SavePath  string
	Overrides string
	MatchName bool
	Refresh   bool
	Download  bool
	Strict    bool
}

// NewIconsCmd creates the icons command
func NewIconsCmd(opts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Match, apply and reset application icons",
	}

	cmd.AddCommand(newIconsApplyCmd(opts))
	cmd.AddCommand(newIconsRefreshCmd(opts))
	cmd.AddCommand(newIconsResetCmd(opts))
	cmd.AddCommand(newIconsLocalCmd(scanner.NewFileSystemScanner()))

	return cmd
}

func newIconsApplyCmd(opts *GlobalOptions) *cobra.Command {
	var flags IconFlags

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Set an icon for every application",
		Long: `Resolves each application slug against the icon repository (exact
name, then prefix, then substring) and sets the matching icon, either by
uploading a local file or by handing the portal a CDN URL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			iconOpts, err := validateIconFlags(&flags)
			if err != nil {
				return err
			}

			rt, err := newSession(opts)
			if err != nil {
				return err
			}
			iconOpts.CDNBase = rt.settings.IconsCDN

			resolverOpts := []resolver.Option{resolver.WithNameFallback(flags.MatchName)}
			if flags.Overrides != "" {
				overrides, err := resolver.LoadOverrides(flags.Overrides)
				if err != nil {
					return err
				}
				resolverOpts = append(resolverOpts, resolver.WithOverrides(overrides))
			}

			o := rt.orchestrator(opts,
				orchestrator.WithResolver(resolver.New(resolverOpts...)),
				orchestrator.WithDownloader(cdn.NewDownloader(rt.settings.HTTPTimeout)),
				orchestrator.WithStrict(flags.Strict),
			)

			rt.log.Info("Applying icons...")
			logrus.Debugf("Icon options: %+v", iconOpts)
			_, err = o.ApplyIcons(cmd.Context(), *iconOpts)
			return err
		},
	}

	cmd.Flags().StringVar(&flags.Format, "format", resolver.FormatDefault, "Icon format (default, svg, png, webp)")
	cmd.Flags().StringVar(&flags.Theme, "theme", resolver.ThemeDark, "Icon theme (dark, light)")
	cmd.Flags().StringVarP(&flags.Method, "method", "m", string(resolver.DeliveryFile), "Delivery method (file, url)")
	cmd.Flags().StringVarP(&flags.SavePath, "save-path", "s", "./icons", "Directory holding icon files for the file method")
	cmd.Flags().StringVar(&flags.Overrides, "overrides", "", "YAML file mapping application slugs to icon names")
	cmd.Flags().BoolVar(&flags.MatchName, "match-name", false, "Retry with the application name when the slug has no icon")
	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "Refresh the icon cache before matching")
	cmd.Flags().BoolVar(&flags.Download, "download", false, "Download missing icon files from the CDN (file method)")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "Count applications without an icon as failures")

	return cmd
}

func validateIconFlags(flags *IconFlags) (*orchestrator.IconOptions, error) {
	delivery, err := resolver.ParseDelivery(flags.Method)
	if err != nil {
		return nil, err
	}

	switch flags.Theme {
	case resolver.ThemeDark, resolver.ThemeLight:
	default:
		return nil, models.NewError(models.ErrConfiguration, "unknown theme %q (want dark or light)", flags.Theme)
	}

	if flags.Format == "" {
		flags.Format = resolver.FormatDefault
	}
	if delivery == resolver.DeliveryFile && flags.SavePath == "" {
		return nil, models.NewError(models.ErrConfiguration, "save-path is required for the file method")
	}

	return &orchestrator.IconOptions{
		Options: resolver.Options{
			Format:   flags.Format,
			Theme:    flags.Theme,
			Delivery: delivery,
			SavePath: flags.SavePath,
		},
		Refresh:  flags.Refresh,
		Download: flags.Download,
	}, nil
}

func newIconsRefreshCmd(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild the local icon metadata cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newSession(opts)
			if err != nil {
				return err
			}

			snap, err := rt.cache.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			rt.log.Infof("Cached %d icons from %s@%s in %s",
				len(snap.Entries), snap.Repository, snap.Branch, rt.cache.Path())
			return nil
		},
	}
}

func newIconsResetCmd(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove the icon of every application",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newSession(opts)
			if err != nil {
				return err
			}

			_, err = rt.orchestrator(opts).ResetIcons(cmd.Context())
			return err
		},
	}
}

func newIconsLocalCmd(sc scanner.Scanner) *cobra.Command {
	var savePath string

	cmd := &cobra.Command{
		Use:   "local",
		Short: "List the icon files available for the file method",
		RunE: func(cmd *cobra.Command, args []string) error {
			icons, err := sc.Scan(cmd.Context(), savePath)
			if err != nil {
				return models.NewError(models.ErrNotFound, "scan %s: %w", savePath, err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFORMAT\tSIZE\tPATH")
			for _, icon := range icons {
				format := icon.Format.String()
				if icon.Mismatch {
					format += " (extension mismatch)"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", icon.Name, format, icon.Size, icon.Path)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&savePath, "save-path", "s", "./icons", "Directory holding icon files")

	return cmd
}
