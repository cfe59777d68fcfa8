package sdk

// Version is reported in the User-Agent of every HTTP request.
const Version = "0.1.0"
