package cli

import (
	"github.com/beauthy/beauthy/internal/cache"
	"github.com/beauthy/beauthy/internal/config"
	"github.com/beauthy/beauthy/internal/orchestrator"
	"github.com/beauthy/beauthy/internal/portal"
	"github.com/beauthy/beauthy/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// session holds the clients built from the environment for one run.
type session struct {
	settings *config.Settings
	portal   *portal.Client
	repo     *repository.Client
	cache    *cache.Cache
	policy   orchestrator.ErrorPolicy
	log      *logrus.Entry
}

// newSession loads configuration and builds the clients. Configuration
// errors surface here, before any network call.
func newSession(opts *GlobalOptions) (*session, error) {
	policy, err := orchestrator.ParseErrorPolicy(opts.ErrorPolicy)
	if err != nil {
		return nil, err
	}

	settings, err := config.Load(opts.EnvFile)
	if err != nil {
		return nil, err
	}

	var repoOpts []repository.Option
	if settings.GitHubAPIURL != "" {
		repoOpts = append(repoOpts, repository.WithBaseURL(settings.GitHubAPIURL))
	}
	repo, err := repository.NewClient(settings.GitHubToken, settings.HTTPTimeout, repoOpts...)
	if err != nil {
		return nil, err
	}

	rt := &session{
		settings: settings,
		portal:   portal.NewClient(settings.AuthentikHost, settings.AuthentikToken, settings.HTTPTimeout),
		repo:     repo,
		cache:    cache.New(settings.IconsCache, settings.IconsRepository, settings.IconsBranch, repo),
		policy:   policy,
		log:      logrus.WithField("run", uuid.NewString()),
	}

	rt.log.Debugf("Portal %s, icons %s@%s, cache %s",
		settings.AuthentikHost, settings.IconsRepository, settings.IconsBranch, settings.IconsCache)
	return rt, nil
}

// orchestrator builds an Orchestrator with the shared options applied.
func (rt *session) orchestrator(opts *GlobalOptions, extra ...orchestrator.Option) *orchestrator.Orchestrator {
	base := []orchestrator.Option{
		orchestrator.WithIcons(rt.cache, rt.repo, rt.settings.IconsRepository),
		orchestrator.WithErrorPolicy(rt.policy),
		orchestrator.WithOnly(opts.Only),
		orchestrator.WithDryRun(opts.DryRun),
		orchestrator.WithLogger(rt.log),
	}
	return orchestrator.New(rt.portal, append(base, extra...)...)
}
