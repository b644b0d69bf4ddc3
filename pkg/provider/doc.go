// Package provider defines the interface to the hosted inference API and
// the request types exchanged with it. The onemin subpackage implements it
// against the 1min.ai REST API; oneminttest provides an in-memory fake.
package provider
