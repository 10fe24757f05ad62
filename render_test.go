package predql

import (
	"testing"
)

func TestSerialize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{
			input:    "Age > 18",
			expected: "(Age > 18)",
		},
		{
			input:    `Name == "Jane" && Age >= 21`,
			expected: `((Name == "Jane") && (Age >= 21))`,
		},
		{
			input:    `Age == 1 || Active == true && Name == "x"`,
			expected: `((Age == 1) || ((Active == true) && (Name == "x")))`,
		},
		{
			input:    `!(Active == true)`,
			expected: "!(Active == true)",
		},
		{
			input:    `Name.StartsWith("J")`,
			expected: `Name.StartsWith("J")`,
		},
		{
			input:    `Address.City == "Boston"`,
			expected: `(Address.City == "Boston")`,
		},
		{
			input:    `Name != null`,
			expected: "(Name != null)",
		},
		{
			input:    `Score > "1,234.5"`,
			expected: "(Score > 1234.5)",
		},
		{
			input:    `Name == "Ja\"ne"`,
			expected: `(Name == "Ja\"ne")`,
		},
		{
			input:    `Joined > "2020-01-01"`,
			expected: `(Joined > "2020-01-01")`,
		},
		{
			input:    `Age == "123"`,
			expected: "(Age == 123)",
		},
		{
			input:    `Name == "123"`,
			expected: `(Name == "123")`,
		},
		{
			input:    `Name.Contains("an") || Name.Length() <= 2`,
			expected: `(Name.Contains("an") || (Name.Length() <= 2))`,
		},
	}

	schema := personSchema()
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			pred, err := Deserialize(schema, tc.input)
			if err != nil {
				t.Fatalf("Deserialize failed: %v", err)
			}
			got, err := Serialize(pred)
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

// Serializing, re-deserializing, and serializing again must reach a fixed
// point: the canonical form round-trips through the compiler unchanged.
func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"Age > 18",
		`(Age > 18) && (Name == "Jane")`,
		`Age == 1 || Active == true && Name == "x"`,
		`!(Active == true) || Name.StartsWith("J")`,
		`Address.City == "Boston" && Address.Zip != null`,
		`Name == "a \"quoted\" value"`,
		`Score > "1,234.5" && Age <= 65`,
		`Joined.After("2020-06-01")`,
	}

	schema := personSchema()
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			pred, err := Deserialize(schema, input)
			if err != nil {
				t.Fatalf("Deserialize failed: %v", err)
			}
			first, err := Serialize(pred)
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			pred2, err := Deserialize(schema, first)
			if err != nil {
				t.Fatalf("re-Deserialize of %q failed: %v", first, err)
			}
			second, err := Serialize(pred2)
			if err != nil {
				t.Fatalf("re-Serialize failed: %v", err)
			}
			if first != second {
				t.Errorf("round trip is not a fixed point: %q vs %q", first, second)
			}
		})
	}
}

// A round-tripped predicate must also behave identically.
func TestRoundTripEvaluation(t *testing.T) {
	schema := personSchema()
	rec := Person{Name: "Jane", Age: 25, Score: 9.5, Active: true, Address: Address{City: "Boston"}}

	inputs := []string{
		`Age > 18 && Name.StartsWith("J")`,
		`Score > 9 || Active == false`,
		`!(Address.City == "Chicago")`,
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			pred, err := Deserialize(schema, input)
			if err != nil {
				t.Fatalf("Deserialize failed: %v", err)
			}
			want, err := pred.Eval(rec)
			if err != nil {
				t.Fatalf("Eval failed: %v", err)
			}
			canonical, err := Serialize(pred)
			if err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			pred2, err := Deserialize(schema, canonical)
			if err != nil {
				t.Fatalf("re-Deserialize failed: %v", err)
			}
			got, err := pred2.Eval(rec)
			if err != nil {
				t.Fatalf("re-Eval failed: %v", err)
			}
			if got != want {
				t.Errorf("round-tripped predicate disagrees: %v vs %v", got, want)
			}
		})
	}
}
