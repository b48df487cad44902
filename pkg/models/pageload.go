package models

import (
	"github.com/matzehuels/spanlane/pkg/core/model"
)

// PageLoad models a browser navigating to a server-rendered page. The
// monolith fetches data and asks an SSR service to render, which pulls its
// bundle from the CDN; the browser then loads the client bundle and hydrates.
func PageLoad() model.Builder {
	server := GLB("GET /foo", Monolith("GET /foo",
		SameDatacenter(model.Constant("[fetch data]", 300, model.WithService("DB"))),
		SameDatacenter(WithOverhead("POST /render", 40, []model.Builder{
			GLB("GET /handler.js", AssetRequest("GET server-bundle.js")),
			model.Constant("renderToString()", 200),
		}, model.WithSpan(), model.WithService("SSR"))),
	))

	loading := model.Serial("Loading", []model.Builder{
		Gap(20),
		InternetOverhead(AssetRequest("GET client-bundle.js")),
		Gap(5),
		model.Constant("hydrate()", 50),
		Gap(5),
	})

	return BrowserPageLoad(InternetOverhead(server), loading)
}

// BrowserPageLoad is the outermost browser span: a short think time, the
// server round trip, then client-side loading.
func BrowserPageLoad(server, loading model.Builder) model.Builder {
	return WithOverhead("user navigates to /foo", 1, []model.Builder{
		Gap(20), InternetOverhead(server), loading,
	}, model.WithSpan(), model.WithService("Browser"))
}

// InternetOverhead adds slow 3G latency around child.
func InternetOverhead(child model.Builder) model.Builder {
	return WithOverhead("slow 3G overhead", 15, []model.Builder{child})
}

// GLB routes child through the global load balancer.
func GLB(label string, child model.Builder) model.Builder {
	return WithOverhead(label, 10, []model.Builder{child}, model.WithService("GLB"))
}

// SameDatacenter adds intra-datacenter latency around child.
func SameDatacenter(child model.Builder) model.Builder {
	return WithOverhead("Same datacenter overhead", 5, []model.Builder{child})
}

// AssetRequest is a static file fetched from the CDN.
func AssetRequest(label string) model.Builder {
	return model.Constant(label, 50, model.WithService("CDN"))
}

// Monolith is a visible span in the monolith with no overhead of its own.
func Monolith(label string, children ...model.Builder) model.Builder {
	return WithOverhead(label, 0, children, model.WithSpan(), model.WithService("Monolith"))
}
