// Package fileutil holds small filesystem helpers shared by the on-disk
// cache medium and the configuration writer.
package fileutil
