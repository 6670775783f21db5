package cmd

const DESCRIPTION = `
touchpos is the command line front end of the TouchScreenPOS inventory
client. It logs in to the inventory API, keeps the session between runs,
lists and records representations and keeps a local cache of product
images.
`

const (
	LoginDescription = `The login command asks the server for a CSRF token,
submits the credentials and saves the session cookies so
later commands run logged in. The password is read without
echo when it is not given as a flag.

Example:
        touchpos login -u ana

`
	LogoutDescription = `The logout command ends the session on the server and
removes the saved session file. The local session is
removed even when the server cannot be reached.

Example:
        touchpos logout

`
	WhoamiDescription = `The whoami command checks the saved session against the
server and prints the logged in user.

Example:
        touchpos whoami

`
	SessionDescription = `The session command shows where the session is saved and
whether it holds a session cookie. It does not contact
the server and never prints cookie values.

Example:
        touchpos session

`
	ListDescription = `The list command displays the recorded representations
with their time, user, reason and number of items.

Example:
        touchpos list

`
	ShowDescription = `The show command displays one representation with its
items, quantities and prices.

Example:
        touchpos show 42

`
	CatalogDescription = `The catalog command displays the sellable articles grouped
by category. Without flags it shows the category cards and
the articles of the first category.

Examples:
        touchpos catalog
        touchpos catalog --category 3
        touchpos catalog --all --lookups

`
	PrefetchDescription = `The prefetch command downloads the images of all sellable
articles into the local image cache. Images already on
disk are not downloaded again.

Example:
        touchpos prefetch

`
	CreateDescription = `The create command records a new representation. Every
--item flag adds one article as ID:QUANTITY[:PRICE]; the
price defaults to 0. Use "touchpos catalog --lookups" to
find warehouse and reason ids. When the server rejects
the request, the request and response are written to
last-create-representation.txt in the data directory.

Example:
        touchpos create -w 1 -r 2 -i 101:2 -i 102:1:2.50 -n "proba"

`
)
