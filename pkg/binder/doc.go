// Package binder wires the event form together.
//
// A Binder is created per viewer and bound once, when the page is ready.
// Binding does four things:
//
//  1. It writes the viewer's UTC offset, in signed minutes, into the hidden
//     utc-offset input.
//  2. It attaches a date/time picker to the datePicker input and subscribes
//     to the picker's change, dp.change and focusout events.
//  3. It attaches the field rules for Date and Memo to the eventForm form.
//  4. It revalidates Date and then Memo so both fields show a state before
//     the viewer touches anything.
//
// After binding, every picker event revalidates the Date field and nothing
// else. The event-to-action mapping is the DispatchTable.
//
// A Binder is not safe for concurrent use. The host runs it from a single
// goroutine, the way a browser runs page scripts on its UI thread.
package binder
