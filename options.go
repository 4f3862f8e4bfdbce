package glprint

// Option configures a probe run.
// Use functional options to customize Probe behavior.
//
// Example:
//
//	// Default probe: host agent, all aliases, SHA-256
//	res, err := glprint.Probe(ctx, host)
//
//	// Override the client identifier and digest
//	res, err := glprint.Probe(ctx, host,
//	    glprint.WithAgent(r.UserAgent()),
//	    glprint.WithDigest(glprint.DigestSHA3),
//	)
type Option func(*options)

// options holds optional configuration for a probe run.
type options struct {
	agent        string
	agentSet     bool
	aliases      []string
	digest       Digest
	hostOrder    bool
	legacy       bool
	sceneWidth   int
	sceneHeight  int
	sceneEnabled bool
}

// defaultOptions returns the default probe options.
func defaultOptions() options {
	return options{
		aliases:      DefaultAliases,
		digest:       DigestSHA256,
		sceneWidth:   SceneWidth,
		sceneHeight:  SceneHeight,
		sceneEnabled: true,
	}
}

// WithAgent overrides the client identifier mixed into both digests.
// By default the host's Agent is used.
func WithAgent(agent string) Option {
	return func(o *options) {
		o.agent = agent
		o.agentSet = true
	}
}

// WithAliases replaces the ordered list of context aliases tried by the
// prober. An empty list restores DefaultAliases.
func WithAliases(aliases ...string) Option {
	return func(o *options) {
		if len(aliases) == 0 {
			o.aliases = DefaultAliases
			return
		}
		o.aliases = append([]string(nil), aliases...)
	}
}

// WithDigest selects the hash function used for both digest stages.
func WithDigest(d Digest) Option {
	return func(o *options) {
		o.digest = d
	}
}

// WithHostOrder keeps extension names in the order the host reported them.
// By default they are sorted so equivalent sets yield the same fingerprint.
// Use this for bit-compatibility with deployments that did not sort.
func WithHostOrder() Option {
	return func(o *options) {
		o.hostOrder = true
	}
}

// WithLegacyFingerprint computes the first digest over the pixel
// serialization only, as older deployments did. The capability record is
// still collected and returned.
func WithLegacyFingerprint() Option {
	return func(o *options) {
		o.legacy = true
	}
}

// WithSceneSize changes the scene surface size. It is a diagnostic mode:
// the pixel buffer holds width*height*4 bytes instead of the canonical
// SceneWidth*SceneHeight*4, so its fingerprints are not comparable with
// those of a default probe. Non-positive sizes are ignored.
func WithSceneSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.sceneWidth = width
			o.sceneHeight = height
		}
	}
}

// WithoutScene skips the scene renderer; the fingerprint is then derived
// from capability data alone.
func WithoutScene() Option {
	return func(o *options) {
		o.sceneEnabled = false
	}
}
