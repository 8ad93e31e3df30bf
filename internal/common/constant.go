package common

// AuthorizationHeaderName carries bearer tokens on API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token value in the Authorization header.
const BearerPrefix = "Bearer "

// RoleAdmin is the JWT role allowed to run administrative actions
// (freezing donations, NGO verification, reconciliation).
const RoleAdmin = "admin"

// MaxEvidenceFileSize limits multipart evidence uploads to 10 MiB.
const MaxEvidenceFileSize = 10 << 20
