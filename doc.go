// Package marey renders railway time-distance (Marey) diagrams.
//
// A caller supplies two CBOR documents, a network and a drawing request, and
// gets back the diagram geometry:
//
//	out, err := marey.Render(networkData, requestData)
//
// Engine adds configured drawing defaults, output selection and a response
// cache. Server exposes an Engine over HTTP:
//
//	POST /api/diagram?format=json&group=summary&train=IC
//	GET  /api/health
//
// The request body is a CBOR envelope {network, request}. Errors are reported as
// JSON with status 400 for malformed input, 422 for an inconsistent network and
// 404 for a requested station or interval the network does not define.
package marey
