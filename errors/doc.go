/*
Package errors implements custom error interfaces for bazaar.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Extensions register their
own root errors with Register(code, description); x/auction is a good package
to take a look at.

Code stands for ABCI error code, which allows to distinguish types of errors
on the client side and act accordingly.

Create errors using ErrXyz.New("...") or errors.Wrap(err, "...") at the point
of creation to ensure we attach a stacktrace. If you wrap multiple times, only
the first wrap records the stacktrace. Use %+v to print it.
*/
package errors
