package model

// EnrichmentRequest is the job creation payload: the distinct enabled target
// fields and one projected record per valid table row. It is built once per
// submission and never mutated or retried in altered form.
type EnrichmentRequest struct {
	Name     string
	Operator MatchOperator
	Columns  []InputField
	Records  []map[InputField]string
}
