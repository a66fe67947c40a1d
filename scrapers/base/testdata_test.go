package base

// udyamPage is a trimmed copy of the registration page's step one markup.
const udyamPage = `<!DOCTYPE html>
<html><head><title>UDYAM REGISTRATION</title>
<script>var x = "Not a label";</script></head>
<body>
<form method="post" action="./UdyamRegistration.aspx" id="form1">
<input type="hidden" name="__VIEWSTATE" id="__VIEWSTATE" value="/wEPDwUK" />
<div class="form-group">
  <label for="ctl00_ContentPlaceHolder1_txtadharno">1. Aadhaar Number/ <b>आधार संख्या</b></label>
  <input name="ctl00$ContentPlaceHolder1$txtadharno" type="text" maxlength="12"
    id="ctl00_ContentPlaceHolder1_txtadharno" class="form-control" placeholder="Your Aadhaar No" required />
</div>
<div class="form-group">
  <span>2. Name of Entrepreneur &amp; Owner</span>
  <input name="ctl00$ContentPlaceHolder1$txtownername" type="text" maxlength="100"
    id="ctl00_ContentPlaceHolder1_txtownername" data-val-required="Name is required" />
</div>
<label class="check">
  <input id="ctl00_ContentPlaceHolder1_chkDecarationA" type="checkbox" name="ctl00$ContentPlaceHolder1$chkDecarationA" aria-required="true" />
  I, the holder of the above Aadhaar, hereby give my consent
</label>
<input id="ctl00_ContentPlaceHolder1_txtPan" name="ctl00$ContentPlaceHolder1$txtPan" data-val-regex-pattern="[A-Z]{5}[0-9]{4}[A-Z]{1}" maxlength="ten" />
<select name="ctl00$ContentPlaceHolder1$ddlTypeofOrg" id="ctl00_ContentPlaceHolder1_ddlTypeofOrg">
  <option value="0">Type of Organisation / संगठन के प्रकार</option>
  <option value="1">1. Proprietary / एकल स्वममित्व</option>
</select>
<textarea id="remarks"></textarea>
</form>
</body></html>`
