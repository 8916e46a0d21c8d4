package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/beauthy/beauthy/internal/models"
	"github.com/spf13/cobra"
)

// NewAppsCmd creates the apps command
func NewAppsCmd(opts *GlobalOptions) *cobra.Command {
	var slugs []string

	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List the portal's applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newSession(opts)
			if err != nil {
				return err
			}

			var apps []models.Application
			if len(slugs) == 0 {
				apps, err = rt.portal.ListApplications(cmd.Context())
				if err != nil {
					return err
				}
			}
			for _, slug := range slugs {
				app, err := rt.portal.GetApplication(cmd.Context(), slug)
				if err != nil {
					return models.ForApplication(slug, err)
				}
				apps = append(apps, *app)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tNAME\tPUBLISHER\tICON")
			for _, app := range apps {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", app.Slug, app.Name, app.MetaPublisher, app.MetaIcon)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringSliceVar(&slugs, "slug", nil, "Show only these applications, fetched one by one")

	return cmd
}
