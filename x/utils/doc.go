/*
Package utils provides decorators that are shared by every bazaar
application stack: store isolation, panic recovery, logging, metrics and
transaction tagging.
*/
package utils
