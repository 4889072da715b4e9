package internal

// Version is the version of ankivn
const Version = "0.3.0"
