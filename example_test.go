package sheetjson_test

import (
	"context"
	"fmt"
	"os"

	"github.com/javajack/sheetjson"
)

func ExampleProcessWorkbook() {
	wb := sheetjson.NewMemoryWorkbook("members.csv", []string{"single"}, map[string][][]sheetjson.RawCell{
		"single": sheetjson.TextRows(
			[]string{"Name", "Age", "Member", "Joined"},
			[]string{"Ada", "36", "yes", "2024-01-01"},
			[]string{"Grace", "45", "no", "2024-02-15"},
		),
	})

	opts := sheetjson.NewOptionSet("members.csv", sheetjson.WithOutput(sheetjson.OutputLines))
	rs, err := sheetjson.ProcessWorkbook(context.Background(), wb, opts, nil, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(rs.Keys)
	if err := rs.WriteLines(os.Stdout, false); err != nil {
		fmt.Println(err)
	}
	// Output:
	// [Name Age Member Joined]
	// {"Name":"Ada","Age":36,"Member":true,"Joined":"2024-01-01"}
	// {"Name":"Grace","Age":45,"Member":false,"Joined":"2024-02-15"}
}

func ExampleProcessDeferred() {
	path := os.TempDir() + "/sheetjson_example.csv"
	if err := os.WriteFile(path, []byte("sku,price\nA-1,\"1,50\"\nB-2,3\n"), 0o644); err != nil {
		fmt.Println(err)
		return
	}
	defer os.Remove(path)

	opts := sheetjson.NewOptionSet(path,
		sheetjson.WithDecimalComma(true),
		sheetjson.WithColumnKey("price", sheetjson.ColumnSpec{Format: sheetjson.Decimal(2)}),
	)
	sink := func(_ context.Context, row sheetjson.Row) error {
		sku, _ := row.Get("sku")
		price, _ := row.Get("price")
		fmt.Printf("%v costs %.2f\n", sku, price)
		return nil
	}
	rs, err := sheetjson.ProcessDeferred(context.Background(), opts, sink, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("rows:", rs.NumRows, "accumulated:", len(rs.Data))
	// Output:
	// A-1 costs 1.50
	// B-2 costs 3.00
	// rows: 2 accumulated: 0
}

func ExampleErrorJSON() {
	_, err := sheetjson.Process(context.Background(), sheetjson.NewOptionSet(""))
	fmt.Println(string(sheetjson.ErrorJSON(err)))
	// Output:
	// {"error":true,"key":"no_filepath_specified"}
}
