// Package diagnostic provides coded findings produced while checking schema
// files and suggesting mappings.
//
// Findings are grouped by severity. Errors make a schema unusable, warnings
// flag schemas that compile but probably do not do what was meant (duplicate
// targets, unmatched keys) and infos explain decisions taken on the user's
// behalf.
package diagnostic
