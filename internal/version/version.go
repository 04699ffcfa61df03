package version

// Version is overridden at build time with -ldflags "-X github.com/bnema/steamrec/internal/version.Version=...".
var Version = "dev"
