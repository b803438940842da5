package rail_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/rail"
	"github.com/aretw0/rail/pkg/schema"
)

// ExampleLoad shows the usual flow: load a document once, validate many
// outputs against it.
func ExampleLoad() {
	doc := `
<rail>
<output>
    <string name="name" format="two-words" on-fail-two-words="fix"/>
    <integer name="age" format="valid-range: 0 130"/>
    <list name="tags">
        <string format="lower-case" on-fail-lower-case="fix"/>
    </list>
</output>
</rail>`

	ctx := context.Background()
	guard, err := rail.Load(ctx, strings.NewReader(doc))
	if err != nil {
		log.Fatal(err)
	}

	out, err := guard.Validate(ctx, map[string]any{
		"name": "Ada Lovelace King",
		"age":  "36",
		"tags": []any{"Math", "Poetry"},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)

	_, err = guard.Validate(ctx, map[string]any{"age": 200})
	var failure *schema.ValidatorFailure
	if errors.As(err, &failure) {
		fmt.Println(err)
	}

	// Output:
	// map[age:36 name:Ada Lovelace tags:[math poetry]]
	// age: validator valid-range failed on 200: 200 is outside 0..130
}

// ExampleGuard_Describe renders the schema as documentation.
func ExampleGuard_Describe() {
	doc := `
<output>
    <object name="user" description="The account owner">
        <email name="email" description="Primary address"/>
        <date name="born" date-format="%d/%m/%Y"/>
    </object>
</output>`

	guard, err := rail.Load(context.Background(), strings.NewReader(doc))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(guard.Describe(false))

	// Output:
	// # Output schema
	//
	// - `user` (object): The account owner
	//   - `email` (email): Primary address
	//   - `born` (date, `%d/%m/%Y`)
}
