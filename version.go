package nodela

// Version is the SDK version sent in the User-Agent header.
const Version = "1.0.0"

const userAgent = "nodela-go/" + Version
