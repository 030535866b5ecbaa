// Package server exposes a translation store over HTTP.
//
// Routes:
//
//	GET  /v1/messages        merged tree for the request's languages (?format=json|yaml)
//	GET  /v1/messages/{key}  one subtree or string by dotted key; other query
//	                         parameters fill {{placeholders}}
//	GET  /v1/languages       loaded languages with display names
//	POST /v1/reload          reload the store from its source
//	GET  /v1/status          store version and last reload
//	GET  /preview            HTML table of the merged strings
//	GET  /health/live        liveness
//	GET  /health/ready       readiness (store, redis, postgres)
//
// Languages are taken from ?lang=, the "lang" cookie and Accept-Language,
// in that order of precedence.
package server
