// Package form provides field-level validation for datedmemo forms.
//
// # Overview
//
// A Form is built from a list of field rules. Each rule names a field, a
// validator kind, the kind's parameters and the message shown when the rule
// fails:
//
//	f, err := form.New("eventForm", []form.Rule{
//	    {Field: "Date", Kind: form.KindNotEmpty, Message: "The date is required"},
//	    {Field: "Date", Kind: form.KindDate, Params: map[string]string{"format": "MM/DD/YYYY h:m A"},
//	        Message: "The date is not a valid"},
//	    {Field: "Memo", Kind: form.KindNotEmpty, Message: "Memo must have content"},
//	})
//
// A rule with an unknown kind or missing parameters is a programming error
// and makes New fail.
//
// # Field State
//
// Every field has a Status: not yet validated, validating, valid or invalid.
// RevalidateField re-runs one field's validators and publishes the status
// changes to listeners registered with OnStatus. Other fields keep their
// state. Input is the live-validation entry point: it sets a value and
// revalidates that field.
//
// # Icons
//
// The indicator shown next to a field is picked from an Icons set keyed by
// status. GlyphIcons is the default.
package form
