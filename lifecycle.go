package glprint

// LoseContextExtensions are the lose-context extension names, tried in order.
var LoseContextExtensions = []string{
	"WEBGL_lose_context",
	"WEBKIT_WEBGL_lose_context",
	"MOZ_WEBGL_lose_context",
}

// Release gives a context back to the host through the first lose-context
// extension it exposes. Browsers cap the number of live contexts per page,
// so every context the probe no longer needs goes through here.
//
// Release never fails: a context that cannot be released is logged and
// left to the host's garbage collector.
func Release(rc Querier) {
	if rc == nil {
		return
	}
	for _, name := range LoseContextExtensions {
		ext, err := rc.Extension(name)
		if err != nil {
			Logger().Warn("glprint: unable to lose context", "extension", name, "err", err)
			return
		}
		if ext == nil {
			continue
		}
		loser, ok := ext.(ContextLoser)
		if !ok {
			continue
		}
		if err := loser.LoseContext(); err != nil {
			Logger().Warn("glprint: unable to lose context", "extension", name, "err", err)
		}
		return
	}
	Logger().Debug("glprint: no lose-context extension available")
}
