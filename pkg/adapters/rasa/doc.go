/*
Package rasa serves the booking form as a Rasa custom action server.

Rasa calls POST /webhook with the name of the next action and the
conversation tracker. The handler answers with tracker events (slot updates,
form activation, slot resets) and bot responses, using the same form
controller and validators as the rest of the module.
*/
package rasa
