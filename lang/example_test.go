package lang_test

import (
	"context"
	"fmt"

	"github.com/ardnew/permute/lang"
	"github.com/ardnew/permute/lang/token"
)

func ExampleEvaluate() {
	ctx := context.Background()

	script, err := lang.ParseString(ctx, `
let Ints = [u8, u16, u32];
for T in Ints - [u16] {
	impl Zero for T { fn zero() -> T { 0 } }
}`)
	if err != nil {
		fmt.Println(err)

		return
	}

	chunks, err := lang.NewEvaluator().EvalEach(ctx, script)
	if err != nil {
		fmt.Println(err)

		return
	}

	for _, line := range lang.Render(chunks) {
		fmt.Println(line)
	}
	// Output:
	// impl Zero for u8 { fn zero() -> u8 { 0 } }
	// impl Zero for u32 { fn zero() -> u32 { 0 } }
}

func ExampleExpand() {
	bindings := []lang.Binding{
		{
			Target: lang.Target{Names: []token.Token{token.NewIdent("A")}},
			First:  lang.ListTerm(token.Idents("x"), token.Idents("y")),
		},
		{
			Target: lang.Target{Names: []token.Token{token.NewIdent("B")}},
			First:  lang.ListTerm(token.Idents("1"), token.Idents("2")),
		},
	}

	bodies, err := lang.Expand(lang.NewEnv(), bindings, token.Idents("A", "B"))
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(lang.Render(bodies))
	// Output:
	// [x 1 x 2 y 1 y 2]
}

func ExampleEvaluator_Eval_error() {
	ctx := context.Background()

	script, _ := lang.ParseString(ctx, "for (K, V) in [(a, 1, x)] { K V }")

	_, err := lang.Evaluate(ctx, script)
	fmt.Println(err)
	// Output:
	// 1:16: tuple arity mismatch expected=2 actual=3
}
