package orchestrator

import (
	"context"

	"github.com/beauthy/beauthy/internal/generator"
	"github.com/beauthy/beauthy/internal/models"
	"github.com/beauthy/beauthy/internal/resolver"
	"github.com/beauthy/beauthy/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Portal is the subset of the portal API the orchestrator drives.
type Portal interface {
	ListApplications(ctx context.Context) ([]models.Application, error)
	SetIconFile(ctx context.Context, slug, path string) error
	SetIconURL(ctx context.Context, slug, url string) error
	PatchApplication(ctx context.Context, slug string, fields map[string]any) error
	ClearIcon(ctx context.Context, slug string) error
}

// SnapshotLoader provides the icon metadata snapshot.
type SnapshotLoader interface {
	Load(ctx context.Context) (*models.IconCacheSnapshot, error)
	Refresh(ctx context.Context) (*models.IconCacheSnapshot, error)
}

// MetaFetcher fetches the detail of one icon meta entry.
type MetaFetcher interface {
	FetchMetaFile(ctx context.Context, repoID, path string) (*models.IconMeta, error)
}

// Downloader saves a remote icon locally.
type Downloader interface {
	Download(ctx context.Context, url, dst string) error
}

// Orchestrator runs batches over the portal's applications, one at a time.
type Orchestrator struct {
	portal     Portal
	icons      SnapshotLoader
	metas      MetaFetcher
	repoID     string
	resolver   *resolver.Resolver
	downloader Downloader
	generator  generator.Generator
	policy     ErrorPolicy
	only       map[string]bool
	dryRun     bool
	strict     bool
	log        *logrus.Entry
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithIcons sets the icon snapshot source and the meta file fetcher.
func WithIcons(icons SnapshotLoader, metas MetaFetcher, repoID string) Option {
	return func(o *Orchestrator) {
		o.icons = icons
		o.metas = metas
		o.repoID = repoID
	}
}

// WithResolver replaces the default resolver.
func WithResolver(r *resolver.Resolver) Option {
	return func(o *Orchestrator) { o.resolver = r }
}

// WithDownloader enables fetching missing icon files.
func WithDownloader(d Downloader) Option {
	return func(o *Orchestrator) { o.downloader = d }
}

// WithGenerator sets the text-generation backend.
func WithGenerator(g generator.Generator) Option {
	return func(o *Orchestrator) { o.generator = g }
}

// WithErrorPolicy sets the per-application error policy.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// WithOnly restricts processing to the given slugs.
func WithOnly(slugs []string) Option {
	return func(o *Orchestrator) {
		if len(slugs) == 0 {
			return
		}
		o.only = make(map[string]bool, len(slugs))
		for _, s := range slugs {
			o.only[s] = true
		}
	}
}

// WithDryRun logs portal changes instead of applying them.
func WithDryRun(dryRun bool) Option {
	return func(o *Orchestrator) { o.dryRun = dryRun }
}

// WithStrict counts applications without an icon as failures.
func WithStrict(strict bool) Option {
	return func(o *Orchestrator) { o.strict = strict }
}

// WithLogger sets the base log entry.
func WithLogger(entry *logrus.Entry) Option {
	return func(o *Orchestrator) { o.log = entry }
}

// New creates an Orchestrator.
func New(portal Portal, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		portal:   portal,
		resolver: resolver.New(),
		policy:   PolicyContinue,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logrus.WithField("run", uuid.NewString())
	}
	return o
}

// applications lists the portal's applications, filtered by WithOnly.
func (o *Orchestrator) applications(ctx context.Context) ([]models.Application, error) {
	apps, err := o.portal.ListApplications(ctx)
	if err != nil {
		return nil, err
	}
	if o.only == nil {
		return apps, nil
	}

	var selected []models.Application
	for _, app := range apps {
		if o.only[app.Slug] {
			selected = append(selected, app)
		}
	}
	return selected, nil
}

// fail records err for slug and reports whether the batch must stop.
func (o *Orchestrator) fail(report *Report, slug string, err error) bool {
	err = models.ForApplication(slug, err)
	report.Failures = append(report.Failures, err)

	switch o.policy {
	case PolicyFailFast:
		return true
	case PolicyCollect:
		o.log.WithField("app", slug).Debugf("Failed: %v", err)
	default:
		o.log.WithField("app", slug).Errorf("Failed: %v", err)
	}
	return false
}

// batch lists the applications and applies fn to each, in portal order.
func (o *Orchestrator) batch(ctx context.Context, phase string, fn func(ctx context.Context, report *Report, app models.Application) error) (*Report, error) {
	apps, err := o.applications(ctx)
	if err != nil {
		o.log.Errorf("Failed to list applications: %v", err)
		return &Report{Phase: phase}, err
	}
	return o.run(ctx, phase, apps, fn)
}

func (o *Orchestrator) run(ctx context.Context, phase string, apps []models.Application, fn func(ctx context.Context, report *Report, app models.Application) error) (*Report, error) {
	report := &Report{Phase: phase}
	o.log.Infof("Processing %d applications (%s)", len(apps), phase)

	for i, app := range apps {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Processed++
		o.log.WithField("app", app.Slug).Debugf("Evaluating %s (%d/%d)", app.Slug, i+1, len(apps))

		if err := fn(ctx, report, app); err != nil {
			if o.fail(report, app.Slug, err) {
				return report, report.Err()
			}
		}
	}

	o.log.Infof("%s: %d processed, %d updated, %d without icon, %d failed",
		phase, report.Processed, report.Updated, len(report.Unmatched), len(report.Failures))
	return report, report.Err()
}

// IconOptions controls ApplyIcons.
type IconOptions struct {
	resolver.Options
	// Refresh rebuilds the icon cache before resolving.
	Refresh bool
	// Download fetches missing local icon files from the CDN.
	Download bool
}

// ApplyIcons resolves an icon for every application and sets it in the portal.
func (o *Orchestrator) ApplyIcons(ctx context.Context, opts IconOptions) (*Report, error) {
	if o.icons == nil || o.metas == nil {
		return &Report{Phase: "icons"}, models.NewError(models.ErrConfiguration, "icon source is not configured")
	}

	// List first so a portal failure halts before touching the icon repository.
	apps, err := o.applications(ctx)
	if err != nil {
		o.log.Errorf("Failed to list applications: %v", err)
		return &Report{Phase: "icons"}, err
	}

	var snap *models.IconCacheSnapshot
	if opts.Refresh {
		snap, err = o.icons.Refresh(ctx)
	} else {
		snap, err = o.icons.Load(ctx)
	}
	if err != nil {
		return &Report{Phase: "icons"}, err
	}

	return o.run(ctx, "icons", apps, func(ctx context.Context, report *Report, app models.Application) error {
		return o.applyIcon(ctx, report, app, snap, opts)
	})
}

func (o *Orchestrator) applyIcon(ctx context.Context, report *Report, app models.Application, snap *models.IconCacheSnapshot, opts IconOptions) error {
	log := o.log.WithField("app", app.Slug)

	match, err := o.resolver.ResolveApplication(app, snap)
	if err != nil {
		if models.IsType(err, models.ErrNotFound) {
			report.Unmatched = append(report.Unmatched, app.Slug)
			if o.strict {
				return err
			}
			log.Warnf("No icon found for %s! Check slug and try again.", app.Slug)
			return nil
		}
		return err
	}
	log.Infof("Found icon for %s in path: %s (%s match)", app.Slug, match.Entry.Path, match.Tier)

	meta, err := o.metas.FetchMetaFile(ctx, o.repoID, match.Entry.Path)
	if err != nil {
		return err
	}

	target, err := resolver.Locate(match.Name(), meta, opts.Options)
	if err != nil {
		return err
	}

	if opts.Delivery == resolver.DeliveryURL {
		if o.dryRun {
			log.Infof("Would set icon URL %s", target.URL)
			return nil
		}
		if err := o.portal.SetIconURL(ctx, app.Slug, target.URL); err != nil {
			return err
		}
		log.Infof("Icon URL set to %s", target.URL)
		report.Updated++
		return nil
	}

	if opts.Download && o.downloader != nil {
		exists, err := utils.FileExists(target.Path)
		if err != nil {
			return err
		}
		if !exists {
			if err := o.downloader.Download(ctx, target.URL, target.Path); err != nil {
				return err
			}
		}
	}

	if o.dryRun {
		log.Infof("Would upload icon %s", target.Path)
		return nil
	}
	if err := o.portal.SetIconFile(ctx, app.Slug, target.Path); err != nil {
		return err
	}
	log.Infof("Icon updated from %s", target.Path)
	report.Updated++
	return nil
}

// ResetIcons removes the icon of every application.
func (o *Orchestrator) ResetIcons(ctx context.Context) (*Report, error) {
	return o.batch(ctx, "reset", func(ctx context.Context, report *Report, app models.Application) error {
		if o.dryRun {
			o.log.WithField("app", app.Slug).Info("Would clear icon")
			return nil
		}
		if err := o.portal.ClearIcon(ctx, app.Slug); err != nil {
			return err
		}
		report.Updated++
		return nil
	})
}

// GenerateMetadata generates and patches a description and publisher for
// every application.
func (o *Orchestrator) GenerateMetadata(ctx context.Context) (*Report, error) {
	if o.generator == nil {
		return &Report{Phase: "describe"}, models.NewError(models.ErrConfiguration, "text generator is not configured")
	}

	return o.batch(ctx, "describe", func(ctx context.Context, report *Report, app models.Application) error {
		log := o.log.WithField("app", app.Slug)
		log.Infof("Generating metadata for %s with %s...", app.Slug, o.generator.Model())

		meta, err := generator.Describe(ctx, o.generator, app)
		if err != nil {
			return err
		}
		log.Debugf("Generated description: %s", meta.Description)
		log.Debugf("Generated publisher: %s", meta.Publisher)

		if o.dryRun {
			log.Infof("Would set publisher %q and description %q", meta.Publisher, meta.Description)
			return nil
		}
		if err := o.portal.PatchApplication(ctx, app.Slug, meta.Fields()); err != nil {
			return err
		}
		report.Updated++
		return nil
	})
}
