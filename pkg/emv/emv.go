/*
Package emv implements EMV application discovery for contact payment cards:
selecting the Payment System Environment, walking its directory records,
filtering the advertised applications against acceptable issuer identifiers,
and preparing the GET PROCESSING OPTIONS request that begins a transaction
with the chosen application.

The flow mirrors EMV Book 1 application selection:

 1. SELECT "1PAY.SYS.DDF01" (the PSE) and extract the directory's short
    file identifier from the FCI proprietary template.
 2. READ RECORD over that SFI until the card reports no more records; each
    record's application templates are candidate applications.
 3. Filter candidates by AID prefix, decode them into Applications, and
    resolve which one to use (priority ordering, confirmation prompts).
 4. SELECT the winner and issue GET PROCESSING OPTIONS with a PDOL-shaped
    command template.

Everything past GET PROCESSING OPTIONS (cryptography, PIN, kernel
processing) is out of scope.
*/
package emv
