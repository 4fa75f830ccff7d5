package view

import (
	"go-admin-panel/internal/model"
	"go-admin-panel/internal/resource"
)

type OverviewView struct {
	Chrome
	Overview model.Overview
}

type DetailView struct {
	Chrome
	Resource string
	ListURL  string
	Fields   []DetailField
}

type DetailField struct {
	Name  string
	Value string
}

type ErrorView struct {
	Chrome
	Status  int
	Message string
	Colspan int
}

// NewDetailView lists id, the declared fields and the timestamps of one row
// in that order.
func NewDetailView(chrome Chrome, res *resource.Resource, row model.Row, listURL string) DetailView {
	names := make([]string, 0, len(res.Fields)+3)
	names = append(names, model.FieldID)
	for _, f := range res.Fields {
		names = append(names, f.Name)
	}
	names = append(names, model.FieldCreatedAt, model.FieldUpdatedAt)

	fields := make([]DetailField, 0, len(names))
	for _, name := range names {
		fields = append(fields, DetailField{Name: name, Value: row.String(name)})
	}

	return DetailView{Chrome: chrome, Resource: res.Name, ListURL: listURL, Fields: fields}
}
