// Package web serves the dated memo pages.
//
// The index lists memos in date order. The create page hosts the event form,
// whose binder runs here on the server: the page opens a WebSocket to
// /_binder, forwards the date input's change, dp.change and focusout events
// and the memo's input events, and paints the field states it receives back.
// The form itself submits with a plain GET to /_create.
//
// Routes:
//
//	GET /, /index           memo list
//	GET /create             event form
//	GET /_create            store a memo, redirect to /
//	GET /_delete?id=        delete a memo, redirect to /
//	GET /_binder?offset=    binder WebSocket
//	GET /healthz            liveness
//	GET /static/*           embedded assets
package web
