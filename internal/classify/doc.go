// Package classify assigns a closed category (acceptance, rejection,
// job_alert, interview, other) to inbound email.
//
// Classification prefers the Anthropic Messages API with a strict JSON
// contract. Without an API key, or whenever the upstream call or its
// response is unusable, a bilingual keyword scorer takes over, so a
// classification result is always produced and a single bad message never
// aborts a batch.
package classify
