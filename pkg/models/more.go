package models

import (
	"github.com/matzehuels/spanlane/pkg/core/model"
)

// FanOut models a gateway that authenticates, queries three backends in
// parallel and merges the results. Backend latencies are normally
// distributed, so every simulation packs differently.
func FanOut() model.Builder {
	return ServiceCall("Gateway", "GET /dashboard",
		model.Normal("verify token", 8, 2, model.WithService("Auth")),
		HiddenParallel(
			backend("Orders", "list orders", 120, 40),
			backend("Inventory", "stock levels", 80, 30),
			backend("Recommendations", "suggest", 200, 90),
		),
		model.Normal("merge", 15, 5),
	)
}

func backend(service, op string, mean, stdDev float64) model.Builder {
	return WithOverhead(op, 5, []model.Builder{
		model.Normal("SELECT", mean, stdDev, model.WithService(service+" DB")),
	}, model.WithSpan(), model.WithService(service))
}

// RetryingClient models a client whose first attempt hits a stalled replica
// and is abandoned at the timeout, then succeeds on a second replica after a
// fixed backoff.
func RetryingClient() model.Builder {
	attempt := func(label, replica string, query model.Builder) model.Builder {
		return WithOverhead(label, 2, []model.Builder{query}, model.WithSpan(),
			model.WithAttribute("replica", replica))
	}
	return model.Serial("fetch profile", []model.Builder{
		attempt("attempt 1", "db-2",
			model.Constant("query", 250, model.WithService("Replica"), model.WithAttribute("status", "timeout"))),
		model.Constant("backoff", 100, model.WithAttribute("retry", "exponential")),
		attempt("attempt 2", "db-1", model.Normal("query", 60, 15, model.WithService("Replica"))),
	}, model.WithSpan(), model.WithService("Client"))
}

// GraphQL models a single GraphQL query resolved inside the monolith.
func GraphQL() model.Builder {
	return ServiceCall("Browser", "POST /graphql",
		GLB("POST /graphql", Monolith("POST /graphql",
			model.Constant("Resolve GraphQL Query", 300),
			SameDatacenter(model.Constant("[fetch data]", 120, model.WithService("DB"))),
		)),
	)
}
