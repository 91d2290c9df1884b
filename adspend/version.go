// Package adspend contains the political ad-spending dashboard service
package adspend

// Version is the version of the dashboard service
const Version = "1.4.0"

// CommitVersion is filled in at build time with -ldflags
var CommitVersion = "unknown"

// ASCILogo is printed on startup
const ASCILogo = `
    _       _ ___                     _
   /_\   __| / __|_ __  ___ _ _  __| |
  / _ \ / _' \__ \ '_ \/ -_) ' \/ _' |
 /_/ \_\\__,_|___/ .__/\___|_||_\__,_|
                 |_|   party ad spending dashboard
`
