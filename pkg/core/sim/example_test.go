package sim_test

import (
	"fmt"

	"github.com/matzehuels/spanlane/pkg/core/model"
	"github.com/matzehuels/spanlane/pkg/core/sim"
)

func ExampleSimulate() {
	request := model.Serial("GET /cart", []model.Builder{
		model.Constant("auth", 5, model.WithService("Auth")),
		model.Parallel("load", []model.Builder{
			model.Constant("SELECT items", 30, model.WithService("DB")),
			model.Constant("GET prices", 45, model.WithService("Pricing")),
		}),
	}, model.WithSpan(), model.WithService("API"))

	trace, err := sim.Simulate(request)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(trace.Tree())
	// Output:
	// GET /cart 0 50
	//   auth 0 5
	//   SELECT items 5 35
	//   GET prices 5 50
}
