// Package job defines the job record read by every document assembler.
//
// A [Record] carries the raw inputs for one job: client and vehicle identity,
// priced line items, panel lists, notes, checklists and the cost figures used
// by the financial calculator. Records are decoded from the flat snake_case
// JSON the shop's tools produce:
//
//	rec, err := job.LoadFile("jobs/EST-1042.json")
//	if err != nil {
//	    return err // FILE_NOT_FOUND, INVALID_FORMAT or INVALID_INPUT
//	}
//
// [Validate] checks structural rules with go-playground/validator. Amounts
// are deliberately lenient at this stage; see package money.
//
// Bundled samples for each [DocType] are available through [Sample] and are
// used by the CLI's --sample flag.
package job
