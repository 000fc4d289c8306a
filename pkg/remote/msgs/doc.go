// Package msgs provides the remote control protocol of the transmitter and
// all message schemas.
//
// Every packet is a Typed envelope carrying a protobuf encoded message and
// the sequence number pairing a reply with its command.
package msgs
