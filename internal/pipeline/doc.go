// Package pipeline implements the mechanical stages of a dispatched call:
// parameter binding, URL assembly, transport dispatch and response mapping.
//
// Every stage is a pure function of its inputs. Per-call state, hooks,
// retries and error normalization live above this package; pipeline
// functions never see two attempts of the same call and hold no state
// between invocations.
package pipeline
