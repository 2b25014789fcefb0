// Package devserver serves the floatkit scenario inspector.
//
// The server lists the scenario files of a project, runs them on request
// and hosts live sessions that a browser drives one step at a time over a
// WebSocket:
//
//	GET    /healthz
//	GET    /api/scenarios
//	POST   /api/scenarios/{name}/run
//	POST   /api/sessions            {"scenario": "name"}
//	GET    /api/sessions/{id}
//	DELETE /api/sessions/{id}
//	GET    /ws/sessions/{id}
//	GET    /metrics
//
// Live session messages are JSON objects with a "type" field. Clients send
// step, snapshot, reset and set; the server answers with step, snapshot or
// error messages.
package devserver
