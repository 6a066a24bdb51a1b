// Package status exposes the presence service over HTTP.
//
// It registers the transition routes (/open, /open_intern, /close) behind
// the auth guard and rate limiter, the challenge issuing route
// (/auth_challenge) and the public SpaceAPI document (/spaceapi.json).
package status
