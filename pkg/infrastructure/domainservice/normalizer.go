package domainservice

import (
	"regexp"
	"strings"

	"github.com/WangYihang/web-crawler/pkg/domain/service"
	"github.com/WangYihang/web-crawler/pkg/infrastructure/urljoin"
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

// DomainPattern is the host grammar accepted for root domains
const DomainPattern = `^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`

const defaultScheme = "https://"

// Normalizer implements service.DomainNormalizer
type Normalizer struct {
	domainRegex *regexp.Regexp
	logger      *zap.Logger
}

// NewNormalizer creates a new domain normalizer
func NewNormalizer(logger *zap.Logger) service.DomainNormalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{
		domainRegex: regexp.MustCompile(DomainPattern),
		logger:      logger,
	}
}

// IsValid checks a bare host against the domain grammar
func (n *Normalizer) IsValid(host string) bool {
	return host != "" && n.domainRegex.MatchString(host)
}

// Normalize turns seed hosts or URLs into https root domains.
// Seeds whose host is empty or fails the grammar are skipped.
func (n *Normalizer) Normalize(seeds []string) mapset.Set[string] {
	roots := mapset.NewThreadUnsafeSet[string]()
	for _, seed := range seeds {
		raw := seed
		if !strings.Contains(raw, "://") {
			raw = defaultScheme + raw
		}

		// "host:port" and "host" both keep only the host
		host, _, _ := strings.Cut(urljoin.Netloc(raw), ":")
		if host == "" {
			n.logger.Debug("skipping seed without host", zap.String("seed", seed))
			continue
		}
		if !n.IsValid(host) {
			n.logger.Debug("skipping invalid seed", zap.String("seed", seed), zap.String("host", host))
			continue
		}

		if !strings.HasPrefix(host, defaultScheme) {
			host = defaultScheme + host
		}
		roots.Add(strings.ToLower(host))
	}
	return roots
}
