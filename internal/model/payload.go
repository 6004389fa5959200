package model

import "time"

// Meta is the header block of an output payload.
type Meta struct {
	Source          string `json:"source" yaml:"source" dynamodbav:"source"`
	Term            string `json:"term" yaml:"term" dynamodbav:"term"`
	TotalActivities int    `json:"totalActivities" yaml:"totalActivities" dynamodbav:"totalActivities"`
	FreeActivities  int    `json:"freeActivities" yaml:"freeActivities" dynamodbav:"freeActivities"`
	PaidActivities  int    `json:"paidActivities" yaml:"paidActivities" dynamodbav:"paidActivities"`
}

// Payload is the document handed to output writers.
type Payload struct {
	Meta       Meta       `json:"meta" yaml:"meta"`
	Categories LabelTable `json:"categories" yaml:"categories"`
	Levels     LabelTable `json:"levels" yaml:"levels"`
	Activities []Activity `json:"activities" yaml:"activities"`
}

// Count is a code with its occurrence count.
type Count struct {
	Code  string `json:"code" yaml:"code"`
	Count int    `json:"count" yaml:"count"`
}

// Stats summarises one batch run.
type Stats struct {
	Rows       int     `json:"rows" yaml:"rows"`
	Parsed     int     `json:"parsed" yaml:"parsed"`
	Duplicates int     `json:"duplicates" yaml:"duplicates"`
	Unique     int     `json:"unique" yaml:"unique"`
	Free       int     `json:"free" yaml:"free"`
	Paid       int     `json:"paid" yaml:"paid"`
	Categories []Count `json:"categories" yaml:"categories"`
	Levels     []Count `json:"levels" yaml:"levels"`
}

// Run is a persisted batch run.
type Run struct {
	ID         string     `json:"id" yaml:"id"`
	Input      string     `json:"input" yaml:"input"`
	Meta       Meta       `json:"meta" yaml:"meta"`
	Stats      Stats      `json:"stats" yaml:"stats"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
	Activities []Activity `json:"activities,omitempty" yaml:"activities,omitempty"`
}

// Payload rebuilds the output document for a stored run.
func (r *Run) Payload() *Payload {
	acts := r.Activities
	if acts == nil {
		acts = []Activity{}
	}
	return &Payload{
		Meta:       r.Meta,
		Categories: CategoryLabels,
		Levels:     LevelLabels,
		Activities: acts,
	}
}
